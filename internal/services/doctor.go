package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/julianstephens/clinicdesk/internal/api"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/logger"
	"github.com/julianstephens/clinicdesk/internal/models"
)

const doctorAllKey = "doctor:all"

// DoctorService manages /doctor. Listings are cached briefly; any successful
// mutation drops the cache.
type DoctorService struct {
	client Requester
	cache  *cache.Cache
}

// NewDoctorService creates the service. A non-positive ttl disables caching.
func NewDoctorService(client Requester, ttl time.Duration) *DoctorService {
	s := &DoctorService{client: client}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

// List returns every doctor, or an empty slice on any failure.
func (s *DoctorService) List(ctx context.Context) []models.Doctor {
	if s.cache != nil {
		if cached, ok := s.cache.Get(doctorAllKey); ok {
			return cached.([]models.Doctor)
		}
	}

	var body models.DoctorList
	if !query(ctx, s.client, api.Request{Method: http.MethodGet, Path: "/doctor"}, &body) {
		return []models.Doctor{}
	}
	if body.Doctors == nil {
		body.Doctors = []models.Doctor{}
	}
	if s.cache != nil {
		s.cache.SetDefault(doctorAllKey, body.Doctors)
	}
	return body.Doctors
}

// Filter searches doctors. Only the non-empty criteria are sent; with none
// set it falls back to the plain listing.
func (s *DoctorService) Filter(ctx context.Context, f models.DoctorFilter) models.DoctorList {
	if f.Empty() {
		doctors := s.List(ctx)
		return models.DoctorList{Doctors: doctors, Count: len(doctors)}
	}

	params := url.Values{}
	if f.Name != "" {
		params.Set("name", f.Name)
	}
	if f.Time != "" {
		params.Set("time", f.Time)
	}
	if f.Specialty != "" {
		params.Set("specialty", f.Specialty)
	}

	key := "doctor:filter:" + params.Encode()
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached.(models.DoctorList)
		}
	}

	logger.Debug("Filtering doctors", "query", params.Encode())
	var body models.DoctorList
	if !query(ctx, s.client, api.Request{Method: http.MethodGet, Path: "/doctor/filter", Query: params}, &body) {
		return models.DoctorList{Doctors: []models.Doctor{}}
	}
	if body.Doctors == nil {
		body.Doctors = []models.Doctor{}
	}
	if s.cache != nil {
		s.cache.SetDefault(key, body)
	}
	return body
}

// Save creates a doctor. The form is validated before any request is made.
func (s *DoctorService) Save(ctx context.Context, d models.NewDoctor) (models.MutationResult, error) {
	if err := models.Validate(d); err != nil {
		return models.MutationResult{}, err
	}
	res := mutate(ctx, s.client, api.Request{Method: http.MethodPost, Path: "/doctor", Body: d}, constants.MsgDoctorAdded)
	if res.Success {
		s.invalidate()
	}
	return res, nil
}

// Delete removes a doctor by id.
func (s *DoctorService) Delete(ctx context.Context, id int64) models.MutationResult {
	res := mutate(ctx, s.client, api.Request{
		Method: http.MethodDelete,
		Path:   "/doctor/" + strconv.FormatInt(id, 10),
	}, constants.MsgDoctorDeleted)
	if res.Success {
		s.invalidate()
	}
	return res
}

func (s *DoctorService) invalidate() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

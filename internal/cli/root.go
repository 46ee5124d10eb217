package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/clinicdesk/internal/api"
	"github.com/julianstephens/clinicdesk/internal/config"
	apperrors "github.com/julianstephens/clinicdesk/internal/errors"
	"github.com/julianstephens/clinicdesk/internal/logger"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/router"
	"github.com/julianstephens/clinicdesk/internal/services"
	"github.com/julianstephens/clinicdesk/internal/session"
	"github.com/julianstephens/clinicdesk/internal/storage"
	"github.com/julianstephens/clinicdesk/internal/storage/postgres"
	"github.com/julianstephens/clinicdesk/internal/storage/sqlite"
	"github.com/julianstephens/clinicdesk/internal/views"
)

type Context struct {
	Store    storage.Provider
	Session  session.Store
	Client   *api.Client
	Services *services.Services
	Config   *config.Config

	// Out receives command output; nil means stdout.
	Out io.Writer
}

// NewContext wires the session, API client and services around store.
func NewContext(store storage.Provider, cfg *config.Config, sessOpts ...session.Option) *Context {
	sess := session.New(store, sessOpts...)
	client := api.New(cfg.API.BaseURL, sess,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
	)
	return &Context{
		Store:    store,
		Session:  sess,
		Client:   client,
		Services: services.New(client, cfg.Cache.DoctorTTL),
		Config:   cfg,
	}
}

// OpenStore picks the storage provider for location: a PostgreSQL URI or DSN,
// ":memory:", a .json file, otherwise a SQLite file path.
func OpenStore(location string) (storage.Provider, error) {
	switch {
	case location == ":memory:":
		return storage.NewMemoryStore(), nil
	case strings.HasSuffix(location, ".json"):
		return storage.NewJSONStore(config.ExpandHome(location)), nil
	}
	if postgres.IsURL(location) || strings.Contains(location, "host=") {
		if valid, err := postgres.ValidateConnString(location); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed, use PGPASSFILE or environment variables instead")
			}
			return nil, err
		}
		return postgres.New(location), nil
	}
	return sqlite.NewStore(config.ExpandHome(location)), nil
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.writer(), args...)
}

func (c *Context) writer() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// Report prints what an action asked for. Error alerts become the returned
// error; a forced logout is carried out and reported as an invalid session.
func (c *Context) Report(outs []views.Outcome) error {
	var failures []string
	for _, o := range outs {
		switch o := o.(type) {
		case views.Alert:
			if o.Level == views.LevelError {
				failures = append(failures, o.Message)
				continue
			}
			c.Println(o.Message)
		case views.Navigate:
			c.Printf("Next: %s\n", o.Target.Path())
		case views.PromptLogin:
			c.Println("Log in with 'clinicdesk login patient' to continue.")
		case views.OpenBooking:
			c.Printf("Book with 'clinicdesk appointments book --doctor %d'\n", o.Doctor.ID)
		case views.ForceLogout:
			target := router.ForceLogout(c.Session, o.Target)
			logger.Info("Session ended", "next", target.Path())
			return apperrors.ErrSessionInvalid
		}
	}
	if len(failures) > 0 {
		return errors.New(strings.Join(failures, "; "))
	}
	return nil
}

// Mutation prints a successful result's message, or returns it as an error
// prefixed with failPrefix.
func (c *Context) Mutation(res models.MutationResult, err error, failPrefix string) error {
	if err != nil {
		return Fail(err)
	}
	if !res.Success {
		return errors.New(failPrefix + res.Message)
	}
	c.Println(res.Message)
	return nil
}

// Fail turns an error into the message shown to the user, keeping it
// matchable with errors.Is.
func Fail(err error) error {
	if err == nil {
		return nil
	}
	msg := apperrors.UserMessage(err)
	if msg == err.Error() {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}

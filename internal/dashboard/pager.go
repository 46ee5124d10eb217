package dashboard

import "fmt"

// Pages is ceil(length/size).
func Pages(length, size int) int {
	if size <= 0 || length <= 0 {
		return 0
	}
	return (length + size - 1) / size
}

// Pager is the pagination window over a filtered collection.
type Pager struct {
	Size    int
	Current int
	Length  int
}

func NewPager(size int) Pager {
	return Pager{Size: size, Current: 1}
}

// Reset points the pager at page 1 of a collection of length items.
func (p *Pager) Reset(length int) {
	p.Length = length
	p.Current = 1
}

func (p Pager) Pages() int {
	return Pages(p.Length, p.Size)
}

// Bounds is the half-open index range [start, end) of the current page.
func (p Pager) Bounds() (start, end int) {
	start = (p.Current - 1) * p.Size
	end = start + p.Size
	if start > p.Length {
		start = p.Length
	}
	if end > p.Length {
		end = p.Length
	}
	return start, end
}

func (p Pager) Label() string {
	return fmt.Sprintf("Page %d of %d", p.Current, p.Pages())
}

func (p Pager) PrevDisabled() bool {
	return p.Current <= 1
}

func (p Pager) NextDisabled() bool {
	return p.Current >= p.Pages()
}

// Visible reports whether pager controls are shown at all.
func (p Pager) Visible() bool {
	return p.Pages() > 1
}

// Next advances one page. It reports whether the page changed.
func (p *Pager) Next() bool {
	if p.NextDisabled() {
		return false
	}
	p.Current++
	return true
}

// Prev goes back one page. It reports whether the page changed.
func (p *Pager) Prev() bool {
	if p.PrevDisabled() {
		return false
	}
	p.Current--
	return true
}

// Window returns the current page of items.
func Window[T any](items []T, p Pager) []T {
	start, end := p.Bounds()
	if start >= len(items) {
		return nil
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

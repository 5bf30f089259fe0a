package profile

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-admin/internal/domain/user"
)

// Slot is a named upload position on a profile. Its value is the multipart
// field name the file arrives under.
type Slot string

const (
	SlotProfilePic  Slot = "profilePic"
	SlotProfilePic2 Slot = "profilePic2"
	SlotResumePDF   Slot = "resumePdf"
	SlotVideo       Slot = "video"
)

var Slots = []Slot{SlotProfilePic, SlotProfilePic2, SlotResumePDF, SlotVideo}

type Profile struct {
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	ProfilePic  *string   `json:"profile_pic"`
	ProfilePic2 *string   `json:"profile_pic2"`
	ResumePDF   *string   `json:"resume_pdf"`
	Video       *string   `json:"video"`
	AboutText   *string   `json:"about_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Path returns the stored path currently held in slot s.
func (p Profile) Path(s Slot) *string {
	switch s {
	case SlotProfilePic:
		return p.ProfilePic
	case SlotProfilePic2:
		return p.ProfilePic2
	case SlotResumePDF:
		return p.ResumePDF
	case SlotVideo:
		return p.Video
	}
	return nil
}

// WithPath returns a copy of p with slot s pointing at path.
func (p Profile) WithPath(s Slot, path *string) Profile {
	switch s {
	case SlotProfilePic:
		p.ProfilePic = path
	case SlotProfilePic2:
		p.ProfilePic2 = path
	case SlotResumePDF:
		p.ResumePDF = path
	case SlotVideo:
		p.Video = path
	}
	return p
}

// Changes is an incoming partial update. Empty AboutText and slots missing
// from Paths mean "keep what is there".
type Changes struct {
	Name      string
	AboutText string
	Paths     map[Slot]string
}

// New builds the first profile of an owner.
func New(ownerID uuid.UUID, c Changes, now time.Time) Profile {
	p := Profile{
		OwnerID:   ownerID,
		Name:      c.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.AboutText != "" {
		p.AboutText = stringPtr(c.AboutText)
	}
	for _, s := range Slots {
		if path, ok := c.Paths[s]; ok {
			p = p.WithPath(s, stringPtr(path))
		}
	}
	return p
}

// Merge applies c on top of existing and returns the result together with the
// stored paths the result no longer references. existing is not modified.
func Merge(existing Profile, c Changes, now time.Time) (Profile, []string) {
	merged := existing
	merged.Name = c.Name
	merged.UpdatedAt = now
	if c.AboutText != "" {
		merged.AboutText = stringPtr(c.AboutText)
	}

	var replaced []string
	for _, s := range Slots {
		path, ok := c.Paths[s]
		if !ok {
			continue
		}
		if prior := existing.Path(s); prior != nil && *prior != "" && *prior != path {
			replaced = append(replaced, *prior)
		}
		merged = merged.WithPath(s, stringPtr(path))
	}

	// A path may be shared by several slots; it is only superseded once no
	// slot of the result refers to it.
	var superseded []string
	for _, prior := range replaced {
		if merged.references(prior) || slices.Contains(superseded, prior) {
			continue
		}
		superseded = append(superseded, prior)
	}
	return merged, superseded
}

func (p Profile) references(path string) bool {
	for _, s := range Slots {
		if cur := p.Path(s); cur != nil && *cur == path {
			return true
		}
	}
	return false
}

// View is the public, denormalised read model of a profile and its owner.
type View struct {
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Degree      string    `json:"degree"`
	Birthday    string    `json:"birthday"`
	Address     string    `json:"address"`
	Experience  string    `json:"experience"`
	AboutText   string    `json:"aboutText"`
	ProfilePic  string    `json:"profilePic"`
	ProfilePic2 string    `json:"profilePic2"`
	ResumePDF   string    `json:"resumePdf"`
	Video       string    `json:"video"`
}

func BuildView(p Profile, u user.User) View {
	name := p.Name
	if name == "" {
		name = deref(u.Name)
	}
	return View{
		OwnerID:     p.OwnerID,
		Name:        name,
		Email:       u.Email,
		PhoneNumber: deref(u.Details.PhoneNumber),
		Degree:      deref(u.Details.Degree),
		Birthday:    deref(u.Details.Birthday),
		Address:     deref(u.Details.Address),
		Experience:  deref(u.Details.ExperienceSummary),
		AboutText:   deref(p.AboutText),
		ProfilePic:  deref(p.ProfilePic),
		ProfilePic2: deref(p.ProfilePic2),
		ResumePDF:   deref(p.ResumePDF),
		Video:       deref(p.Video),
	}
}

type Repository interface {
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
}

// ViewCache stores rendered views per owner. Get returns (nil, nil) on a miss.
type ViewCache interface {
	Get(ctx context.Context, ownerID uuid.UUID) (*View, error)
	Set(ctx context.Context, ownerID uuid.UUID, v View) error
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}

func stringPtr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

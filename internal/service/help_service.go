package service

import (
	"context"

	"golang.org/x/text/language"

	"github.com/sarcoord/rescue-backend-go/internal/cache"
	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/notify"
	"github.com/sarcoord/rescue-backend-go/internal/repository"
)

// HelpLanguages are the languages help content is written in. The first one
// is the fallback.
var HelpLanguages = []language.Tag{
	language.Hungarian,
	language.English,
	language.Slovak,
	language.Romanian,
	language.Polish,
}

var helpMatcher = language.NewMatcher(HelpLanguages)

// SupportedLanguage maps a language tag or Accept-Language value to one of
// HelpLanguages by its base code
func SupportedLanguage(lang string) (string, bool) {
	tag, err := language.Parse(lang)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, t := range HelpLanguages {
		if b, _ := t.Base(); b == base {
			return b.String(), true
		}
	}
	return "", false
}

// matchLanguage picks the closest help language for lang, which may be an
// Accept-Language header value
func matchLanguage(lang string) string {
	_, idx := language.MatchStrings(helpMatcher, lang)
	b, _ := HelpLanguages[idx].Base()
	return b.String()
}

// HelpService handles business logic for help content
type HelpService struct {
	repo *repository.HelpRepository
	Shared
}

// NewHelpService creates a new help service
func NewHelpService(repo *repository.HelpRepository, shared Shared) *HelpService {
	return &HelpService{repo: repo, Shared: shared.withDefaults("help")}
}

// List returns all help entries
func (s *HelpService) List(ctx context.Context) ([]models.HelpContent, error) {
	return cache.Fetch(ctx, s.Cache, cache.HelpKey(), s.repo.List)
}

// Get returns one help entry
func (s *HelpService) Get(ctx context.Context, id string) (*models.HelpContent, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, notFound("help content")
	}
	return h, nil
}

// Localized resolves every help entry to the language best matching lang.
// Entries without a translation fall back to Hungarian, then English.
func (s *HelpService) Localized(ctx context.Context, lang string) ([]models.LocalizedHelp, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	want := matchLanguage(lang)
	out := make([]models.LocalizedHelp, 0, len(all))
	for _, h := range all {
		code, text := want, h.Text(want)
		for _, fb := range []string{"hu", "en"} {
			if text != "" {
				break
			}
			code, text = fb, h.Text(fb)
		}
		out = append(out, models.LocalizedHelp{ID: h.ID, Language: code, Text: text})
	}
	return out, nil
}

// Create adds a help entry
func (s *HelpService) Create(ctx context.Context, req models.HelpRequest) (*models.HelpContent, error) {
	if req == (models.HelpRequest{}) {
		return nil, invalid("at least one translation is required")
	}
	now := s.Now()
	h := &models.HelpContent{
		TextHu: req.TextHu, TextEn: req.TextEn, TextSk: req.TextSk, TextRo: req.TextRo, TextPl: req.TextPl,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	s.changed(models.TableHelpContent, notify.OpInsert, "", h.ID)
	return h, nil
}

// Update replaces the translations of a help entry
func (s *HelpService) Update(ctx context.Context, id string, req models.HelpRequest) (*models.HelpContent, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	h.TextHu, h.TextEn, h.TextSk, h.TextRo, h.TextPl = req.TextHu, req.TextEn, req.TextSk, req.TextRo, req.TextPl
	h.UpdatedAt = s.Now()

	if _, err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	s.changed(models.TableHelpContent, notify.OpUpdate, "", h.ID)
	return h, nil
}

// Delete removes a help entry
func (s *HelpService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("help content")
	}
	s.changed(models.TableHelpContent, notify.OpDelete, "", id)
	return nil
}

package services

import (
	"context"
	"strings"

	"github.com/wadjakorntonsri/shortlink/pkg/core/codegen"
	"github.com/wadjakorntonsri/shortlink/pkg/core/domain"
	"github.com/wadjakorntonsri/shortlink/pkg/core/validation"
	"github.com/wadjakorntonsri/shortlink/pkg/ports"
)

// Client-facing validation messages.
const (
	MsgURLRequired = "URL is required"
	MsgInvalidURL  = "Invalid URL format"
	MsgInvalidCode = "Code must match [A-Za-z0-9]{6,8}"
)

// CodeGenerator picks a code for links created without one.
type CodeGenerator interface {
	UniqueCode(ctx context.Context) (string, error)
}

type LinkService struct {
	repo ports.LinkRepository
	gen  CodeGenerator
}

type Option func(*LinkService)

// WithCodeGenerator overrides the default generator backed by repo.CodeExists.
func WithCodeGenerator(gen CodeGenerator) Option {
	return func(s *LinkService) { s.gen = gen }
}

func NewLinkService(repo ports.LinkRepository, opts ...Option) *LinkService {
	s := &LinkService{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = codegen.NewGenerator(repo.CodeExists)
	}
	return s
}

// Shorten validates rawURL and customCode, picks a code when none is given and
// stores the link. The existence check only saves a failed insert; the store's
// unique constraint decides, and its violation comes back as
// domain.ErrDuplicateCode as well.
func (s *LinkService) Shorten(ctx context.Context, rawURL, customCode string) (*domain.Link, error) {
	if rawURL == "" {
		return nil, domain.NewValidationError(MsgURLRequired)
	}
	if !validation.IsValidURL(rawURL) {
		return nil, domain.NewValidationError(MsgInvalidURL)
	}
	normalized := validation.NormalizeURL(rawURL)

	code := customCode
	if code != "" {
		if !validation.IsValidCode(code) {
			return nil, domain.NewValidationError(MsgInvalidCode)
		}
		if validation.IsReservedCode(code) {
			return nil, domain.ErrReservedCode
		}
	} else {
		var err error
		code, err = s.gen.UniqueCode(ctx)
		if err != nil {
			return nil, err
		}
	}

	exists, err := s.repo.CodeExists(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateCode
	}

	link := &domain.Link{
		Code: code,
		URL:  normalized,
	}
	if err := s.repo.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// Redirect records a click on code and returns its target URL. Codes that can
// never exist are rejected without a storage round trip.
func (s *LinkService) Redirect(ctx context.Context, code string) (string, error) {
	if !validation.IsValidCode(code) {
		return "", domain.ErrNotFound
	}
	return s.repo.RedirectAndIncrement(ctx, code)
}

func (s *LinkService) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	if !validation.IsValidCode(code) {
		return nil, domain.ErrNotFound
	}
	return s.repo.Get(ctx, code)
}

func (s *LinkService) DeleteLink(ctx context.Context, code string) error {
	if !validation.IsValidCode(code) {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, code)
}

// ListLinks returns every link, newest first. A non-empty search keeps links
// whose code or URL contains it, ignoring case.
func (s *LinkService) ListLinks(ctx context.Context, search string) ([]domain.Link, error) {
	links, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return links, nil
	}

	filtered := make([]domain.Link, 0, len(links))
	for _, l := range links {
		if strings.Contains(strings.ToLower(l.Code), search) || strings.Contains(strings.ToLower(l.URL), search) {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}

func (s *LinkService) Health(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

var _ ports.LinkService = (*LinkService)(nil)

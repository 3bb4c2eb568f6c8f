package language

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"namescreen/internal/screening/models"
	"namescreen/internal/screening/normalize"
	"namescreen/internal/screening/ports"
	pkgstrings "namescreen/pkg/platform/strings"
)

// Routed is the token sequence handed to the hasher.
type Routed struct {
	Tokens     []string
	Language   string
	Translated bool
	Segmented  bool
}

// Router applies the canonical-language policy to a normalized name.
type Router struct {
	detector   ports.Detector
	translator ports.Translator
	normalizer *normalize.Normalizer
	canonical  map[string]struct{}
	target     string
	segmenters map[string]ports.Segmenter
	logger     *slog.Logger
}

type RouterOption func(*Router)

// WithCanonicalLanguages replaces the canonical set. The first code is the
// translation target.
func WithCanonicalLanguages(codes ...string) RouterOption {
	return func(r *Router) {
		set := make(map[string]struct{})
		target := ""
		for _, c := range pkgstrings.DedupeAndTrimLower(codes) {
			code := Canonicalize(c)
			if code == Unknown {
				continue
			}
			if target == "" {
				target = code
			}
			set[code] = struct{}{}
		}
		if len(set) > 0 {
			r.canonical = set
			r.target = target
		}
	}
}

// WithTranslator enables translation of non-canonical names.
func WithTranslator(t ports.Translator) RouterOption {
	return func(r *Router) {
		r.translator = t
	}
}

// WithSegmenter registers a segmenter used for pass-through names of lang.
func WithSegmenter(lang string, s ports.Segmenter) RouterOption {
	return func(r *Router) {
		r.segmenters[Canonicalize(lang)] = s
	}
}

func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

func NewRouter(detector ports.Detector, normalizer *normalize.Normalizer, opts ...RouterOption) *Router {
	r := &Router{
		detector:   detector,
		normalizer: normalizer,
		canonical:  map[string]struct{}{"en": {}},
		target:     "en",
		segmenters: make(map[string]ports.Segmenter),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Target is the language non-canonical names are translated into.
func (r *Router) Target() string { return r.target }

// HasTranslator reports whether non-canonical names can be translated.
func (r *Router) HasTranslator() bool { return r.translator != nil }

// Route decides the tokens to hash. raw is the name as submitted; translation
// works from it rather than from the folded tokens. The translator is called
// at most once.
func (r *Router) Route(ctx context.Context, raw string, tokens []string, mode models.LanguageMode) (Routed, error) {
	lang := Canonicalize(r.detector.Detect(strings.Join(tokens, " ")))
	if _, ok := r.canonical[lang]; ok {
		return Routed{Tokens: tokens, Language: lang}, nil
	}

	var cause error
	switch {
	case lang == Unknown:
		cause = errors.New("language could not be detected")
	case r.translator == nil:
		cause = errors.New("no translator configured")
	default:
		routed, err := r.translate(ctx, raw, lang)
		if err == nil {
			return routed, nil
		}
		if ctx.Err() != nil {
			return Routed{}, models.Canceled(models.StageLanguage, ctx.Err())
		}
		cause = err
	}

	if mode == models.LanguageModeStrict {
		return Routed{}, models.UnsupportedLanguage(lang, cause)
	}

	r.logger.WarnContext(ctx, "passing non-canonical name through untranslated",
		"language", lang,
		"reason", cause.Error(),
	)
	routed := Routed{Tokens: tokens, Language: lang}
	if seg, ok := r.segmenters[lang]; ok && len(tokens) == 1 {
		if parts := seg.Segment(tokens[0]); len(parts) > 1 {
			if segmented, err := r.normalizer.NormalizeTokens(parts); err == nil {
				routed.Tokens = segmented
				routed.Segmented = true
			}
		}
	}
	return routed, nil
}

func (r *Router) translate(ctx context.Context, raw, lang string) (Routed, error) {
	translated, err := r.translator.Translate(ctx, raw, r.target)
	if err != nil {
		return Routed{}, fmt.Errorf("translate from %s: %w", lang, err)
	}
	tokens, err := r.normalizer.Normalize(translated)
	if err != nil {
		return Routed{}, fmt.Errorf("translation is not a usable name: %w", err)
	}
	return Routed{Tokens: tokens, Language: lang, Translated: true}, nil
}

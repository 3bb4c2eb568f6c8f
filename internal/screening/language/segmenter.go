package language

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// KagomeSegmenter splits unspaced Japanese names into morphemes, so that
// "山田太郎" hashes as two tokens like its romanized form would.
type KagomeSegmenter struct {
	tok *tokenizer.Tokenizer
}

func NewKagomeSegmenter() (*KagomeSegmenter, error) {
	tok, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("load kagome dictionary: %w", err)
	}
	return &KagomeSegmenter{tok: tok}, nil
}

func (s *KagomeSegmenter) Segment(text string) []string {
	var parts []string
	for _, t := range s.tok.Tokenize(text) {
		if t.Class == tokenizer.DUMMY || t.Surface == "" {
			continue
		}
		parts = append(parts, t.Surface)
	}
	return parts
}

package main

import (
	"io"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/takeoff-cli/internal/catalog"
	"github.com/sells-group/takeoff-cli/internal/enhance"
	"github.com/sells-group/takeoff-cli/internal/extractor"
	"github.com/sells-group/takeoff-cli/internal/parser"
	anthropicpkg "github.com/sells-group/takeoff-cli/pkg/anthropic"
)

// initCatalog builds the pattern catalog, extended with a fixture
// vocabulary file when one is configured.
func initCatalog(vocabPath string) (*catalog.Catalog, error) {
	if vocabPath == "" {
		vocabPath = cfg.Extract.VocabularyPath
	}
	if vocabPath == "" {
		return catalog.New(), nil
	}
	vocab, err := catalog.LoadVocabulary(vocabPath)
	if err != nil {
		return nil, eris.Wrapf(err, "load vocabulary %s", vocabPath)
	}
	return catalog.New(catalog.WithFixtureVocabulary(vocab.FixtureTypes)), nil
}

// initEnhancer builds the Claude-backed enhancer from config.
func initEnhancer() (*enhance.Enhancer, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key is required for --enhance (TAKEOFF_ANTHROPIC_KEY)")
	}
	client := anthropicpkg.NewClient(cfg.Anthropic.Key)
	return enhance.New(client, cfg.Anthropic.Model,
		enhance.WithMaxTokens(cfg.Anthropic.MaxTokens),
		enhance.WithTimeout(time.Duration(cfg.Anthropic.TimeoutSecs)*time.Second),
	), nil
}

// initService wires the extraction service. progress may be nil to
// suppress the spinner (batch and serve runs).
func initService(vocabPath string, withEnhance bool, progress io.Writer) (*extractor.Service, *enhance.Enhancer, error) {
	cat, err := initCatalog(vocabPath)
	if err != nil {
		return nil, nil, err
	}

	opts := []extractor.Option{}
	if progress != nil {
		opts = append(opts, extractor.WithProgress(progress))
	}

	var enh *enhance.Enhancer
	if withEnhance {
		enh, err = initEnhancer()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, extractor.WithProposer(enh))
	}

	return extractor.New(parser.New(cat), opts...), enh, nil
}

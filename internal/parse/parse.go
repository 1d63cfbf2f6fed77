package parse

import (
	"fmt"
	"strings"
	"time"

	"vqabuild/internal/config"
)

// New builds the configured parser. "rule" needs nothing external; "http"
// points at a tagging service.
func New(cfg config.Config) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Parser)) {
	case "", "rule":
		return NewRuleParser(), nil
	case "http":
		return NewHTTPParser(cfg.ParserAddr, time.Duration(cfg.ParserTimeoutSecs)*time.Second, cfg.ParserRateLimit), nil
	default:
		return nil, fmt.Errorf("unsupported parser: %s", cfg.Parser)
	}
}

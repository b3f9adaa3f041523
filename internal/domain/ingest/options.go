package ingest

import (
	"github.com/okian/perfscope/internal/domain/detect"
	"github.com/okian/perfscope/internal/domain/identity"
	"github.com/okian/perfscope/pkg/logger"
)

// Option applies a configuration option to the Processor.
type Option func(*Processor)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// WithHeaderScanRows bounds the header search of every sheet.
func WithHeaderScanRows(n int) Option {
	return func(p *Processor) {
		p.detectOpts = append(p.detectOpts, detect.WithHeaderScanRows(n))
	}
}

// WithPlaceholderDomain sets the domain of synthesized addresses.
func WithPlaceholderDomain(domain string) Option {
	return func(p *Processor) {
		p.identityOpts = append(p.identityOpts, identity.WithPlaceholderDomain(domain))
	}
}

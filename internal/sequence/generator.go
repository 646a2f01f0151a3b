// Package sequence issues correlative document codes of the form
// PREFIX-YY/MM/NNN, scanning the existing series to find the next number.
package sequence

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"
)

// OperationPrefix is the fixed prefix for the operation code series.
const OperationPrefix = "GAN-OP"

const fallbackPrefix = "GAN-XX"

var opTypePrefixes = map[string]string{
	"IA": "GAN-IA",
	"IM": "GAN-IM",
	"EA": "GAN-EA",
	"EM": "GAN-EM",
	"IT": "GAN-IT",
	"ET": "GAN-ET",
	"MC": "GAN-MC",
	"CO": "GAN-CO",
}

// PrefixFor maps an operation type to its code prefix. Unknown types get
// the generic GAN-XX series rather than an error.
func PrefixFor(opType string) string {
	if prefix, ok := opTypePrefixes[opType]; ok {
		return prefix
	}
	return fallbackPrefix
}

var trailingNumber = regexp.MustCompile(`/(\d+)$`)

// Store lists the codes already issued under a series prefix.
type Store interface {
	CodesLike(ctx context.Context, prefix string) ([]string, error)
}

// Generator issues the next code in a monthly series.
type Generator struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewGenerator(store Store, logger *slog.Logger) *Generator {
	return &Generator{store: store, logger: logger, now: time.Now}
}

// WithClock overrides the time source.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Next returns the next correlative code for the given prefix. It never
// fails: when the store cannot be scanned the series restarts at 001,
// which keeps document creation available during an outage.
func (g *Generator) Next(ctx context.Context, prefix string) string {
	now := g.now()
	base := fmt.Sprintf("%s-%s/%s/", prefix, now.Format("06"), now.Format("01"))

	codes, err := g.store.CodesLike(ctx, base)
	if err != nil {
		g.logger.Warn("code series scan failed, falling back to 001",
			slog.String("prefix", base), slog.Any("error", err))
		return base + "001"
	}

	max := 0
	for _, code := range codes {
		m := trailingNumber.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", base, max+1)
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DurationProber đọc duration (giây) của một media locator
type DurationProber interface {
	Probe(ctx context.Context, locator string) (float64, error)
}

// FFProbe gọi binary ffprobe, chỉ dùng khi FFPROBE_PATH được cấu hình
type FFProbe struct {
	Path    string
	Timeout time.Duration
}

func NewFFProbe(path string) *FFProbe {
	return &FFProbe{Path: path, Timeout: 30 * time.Second}
}

func (p *FFProbe) Probe(ctx context.Context, locator string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.Path,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		locator,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseProbeOutput(out)
}

func parseProbeOutput(out []byte) (float64, error) {
	raw := strings.TrimSpace(string(out))
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q: %w", raw, err)
	}
	return d, nil
}

// durationOrFallback làm tròn về giây nguyên, tối thiểu 1.
// Probe lỗi hoặc <= 0 thì dùng FallbackDurationSeconds.
func durationOrFallback(ctx context.Context, prober DurationProber, locator string) int {
	d, err := prober.Probe(ctx, locator)
	if err != nil {
		log.Warn().Err(err).Msg("duration probe failed, using fallback")
		return FallbackDurationSeconds
	}
	if d <= 0 {
		return FallbackDurationSeconds
	}
	return max(1, int(math.Round(d)))
}

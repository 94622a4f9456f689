package bench

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	simd "github.com/minio/sha256-simd"

	"github.com/byte4ever/fastcrypt/exec"
	"github.com/byte4ever/fastcrypt/hasher"
	"github.com/byte4ever/fastcrypt/wordbuf"
)

const (
	// DefaultMessage is hashed when Config.Message is empty.
	DefaultMessage = "hello world"

	// DefaultIterations is used when Config.Iterations is
	// not positive.
	DefaultIterations = 100_000

	// checkEvery is how many hashes a worker computes between
	// context checks.
	checkEvery = 1024
)

var (
	// ErrUnknownCandidate is returned for a candidate name
	// that is not registered.
	ErrUnknownCandidate = errors.New("unknown candidate")

	// ErrMismatch is returned when candidates disagree on the
	// digest of the message.
	ErrMismatch = errors.New("candidates disagree on digest")
)

// Candidate is one SHA-256 implementation under test. Sum
// hashes raw bytes. When Text is set it is timed instead and
// must return the base64url digest of the message string.
type Candidate struct {
	Name string
	Sum  func([]byte) [hasher.Size]byte
	Text func(string) string
}

// Candidates returns the built-in candidates, the engine first.
// fastcrypt-digest times the engine from string to base64url.
func Candidates() []Candidate {
	return []Candidate{
		{Name: "fastcrypt", Sum: hasher.Sum256},
		{Name: "fastcrypt-digest", Text: hasher.Digest},
		{Name: "crypto/sha256", Sum: sha256.Sum256},
		{Name: "sha256-simd", Sum: simd.Sum256},
	}
}

// Config holds the settings of a benchmark run.
type Config struct {
	// Message is the input hashed by every candidate.
	Message string

	// Iterations is the number of hashes per candidate.
	Iterations int

	// Parallelism is the number of concurrent workers per
	// candidate.
	Parallelism int

	// Candidates restricts the run to these names; empty
	// means all built-ins.
	Candidates []string

	// Dir is the directory whose git revision stamps the
	// report; empty means the working directory.
	Dir string
}

// Result is the measurement of one candidate.
type Result struct {
	Name       string  `json:"name"`
	Iterations int     `json:"iterations"`
	NsPerOp    float64 `json:"ns_per_op"`
	MBPerSec   float64 `json:"mb_per_sec"`
	Digest     string  `json:"digest"`
}

// Report is the outcome of a run, fastest candidate first.
type Report struct {
	Message     string   `json:"message"`
	Bytes       int      `json:"bytes"`
	Parallelism int      `json:"parallelism"`
	Revision    string   `json:"revision,omitempty"`
	Results     []Result `json:"results"`
}

// Run measures each selected candidate on cfg.Message.
func Run(ctx context.Context, cfg Config) (Report, error) {
	const errCtx = "running benchmark"

	cands, err := selectCandidates(cfg.Candidates)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return RunCandidates(ctx, cfg, cands)
}

// RunCandidates measures the given candidates on cfg.Message,
// ignoring cfg.Candidates.
func RunCandidates(
	ctx context.Context,
	cfg Config,
	cands []Candidate,
) (Report, error) {
	const errCtx = "running benchmark"

	if len(cands) == 0 {
		return Report{}, fmt.Errorf(
			"%s: no candidates", errCtx,
		)
	}

	cfg = withDefaults(cfg)
	msg := []byte(cfg.Message)

	rep := Report{
		Message:     cfg.Message,
		Bytes:       len(msg),
		Parallelism: cfg.Parallelism,
		Revision:    exec.Revision(ctx, cfg.Dir),
	}

	for _, ca := range cands {
		res, err := measure(ctx, ca, msg, cfg)
		if err != nil {
			return Report{}, fmt.Errorf(
				"%s: %s: %w", errCtx, ca.Name, err,
			)
		}

		slog.Info(
			"measured",
			"candidate", res.Name,
			"ns_per_op", res.NsPerOp,
			"mb_per_sec", res.MBPerSec,
		)

		rep.Results = append(rep.Results, res)
	}

	for _, res := range rep.Results[1:] {
		if res.Digest != rep.Results[0].Digest {
			return Report{}, fmt.Errorf(
				"%s: %w: %s=%s %s=%s",
				errCtx, ErrMismatch,
				rep.Results[0].Name, rep.Results[0].Digest,
				res.Name, res.Digest,
			)
		}
	}

	sort.SliceStable(rep.Results, func(i, j int) bool {
		return rep.Results[i].NsPerOp < rep.Results[j].NsPerOp
	})

	return rep, nil
}

// WriteJSON encodes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	const errCtx = "encoding report"

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func withDefaults(cfg Config) Config {
	if cfg.Message == "" {
		cfg.Message = DefaultMessage
	}

	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultIterations
	}

	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}

	cfg.Parallelism = min(cfg.Parallelism, cfg.Iterations)

	return cfg
}

func selectCandidates(names []string) ([]Candidate, error) {
	all := Candidates()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]Candidate, len(all))
	for _, ca := range all {
		byName[ca.Name] = ca
	}

	out := make([]Candidate, 0, len(names))

	for _, na := range names {
		ca, ok := byName[na]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCandidate, na)
		}

		out = append(out, ca)
	}

	return out, nil
}

// measure runs cfg.Iterations hashes of msg split across
// cfg.Parallelism workers and times the whole batch.
func measure(
	ctx context.Context,
	ca Candidate,
	msg []byte,
	cfg Config,
) (Result, error) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
		last string
	)

	text := string(msg)

	share := cfg.Iterations / cfg.Parallelism
	extra := cfg.Iterations % cfg.Parallelism

	start := time.Now()

	for wi := range cfg.Parallelism {
		n := share
		if wi < extra {
			n++
		}

		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			var (
				sum [hasher.Size]byte
				dg  string
			)

			for i := range n {
				if i%checkEvery == 0 && ctx.Err() != nil {
					mu.Lock()
					errs = append(errs, ctx.Err())
					mu.Unlock()

					return
				}

				if ca.Text != nil {
					dg = ca.Text(text)
				} else {
					sum = ca.Sum(msg)
				}
			}

			if ca.Text == nil {
				dg = wordbuf.FromBytes(sum[:]).Base64URL()
			}

			mu.Lock()
			last = dg
			mu.Unlock()
		}(n)
	}

	wg.Wait()

	elapsed := time.Since(start)

	if len(errs) > 0 {
		return Result{}, errs[0]
	}

	ns := float64(elapsed.Nanoseconds()) / float64(cfg.Iterations)

	var mbps float64
	if elapsed > 0 {
		mbps = float64(len(msg)) * float64(cfg.Iterations) /
			elapsed.Seconds() / 1e6
	}

	return Result{
		Name:       ca.Name,
		Iterations: cfg.Iterations,
		NsPerOp:    ns,
		MBPerSec:   mbps,
		Digest:     last,
	}, nil
}

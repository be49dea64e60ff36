package health

import (
	"context"
	"sort"
	"time"
)

const checkTimeout = 2 * time.Second

// Check probes one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

// Service encapsulates health-related checks.
type Service struct {
	checks map[string]Check
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{checks: map[string]Check{}}
}

// Register adds a named dependency check. A nil check is ignored.
func (s *Service) Register(name string, check Check) {
	if check == nil {
		return
	}
	s.checks[name] = check
}

// Report is the health payload.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Status runs every registered check and reports the result.
func (s *Service) Status(ctx context.Context) Report {
	report := Report{OK: true}
	if len(s.checks) == 0 {
		return report
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	report.Checks = make(map[string]string, len(names))
	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := s.checks[name](cctx)
		cancel()
		if err != nil {
			report.OK = false
			report.Checks[name] = err.Error()
			continue
		}
		report.Checks[name] = "ok"
	}
	return report
}

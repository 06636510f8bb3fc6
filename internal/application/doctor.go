package application

import (
	"context"
	"time"
)

type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Check is one local prerequisite probed by doctor. Run returns a short
// detail on success.
type Check struct {
	Name string
	// Failing a non-required check is only a warning.
	Required bool
	Hint     string
	Run      func(ctx context.Context) (string, error)
}

type CheckResult struct {
	Name     string        `json:"name" yaml:"name"`
	Severity Severity      `json:"severity" yaml:"severity"`
	Detail   string        `json:"detail,omitempty" yaml:"detail,omitempty"`
	Hint     string        `json:"hint,omitempty" yaml:"hint,omitempty"`
	Took     time.Duration `json:"took" yaml:"took"`
}

type DoctorReport struct {
	Results []CheckResult `json:"results" yaml:"results"`
}

func (r DoctorReport) Count(severity Severity) int {
	n := 0
	for _, result := range r.Results {
		if result.Severity == severity {
			n++
		}
	}
	return n
}

// Doctor runs every check in order. It never fails on its own: problems
// are reported in the results.
func (s *Service) Doctor(ctx context.Context, checks []Check) DoctorReport {
	report := DoctorReport{Results: make([]CheckResult, 0, len(checks))}

	for _, check := range checks {
		started := s.clock.Now()
		detail, err := check.Run(ctx)
		result := CheckResult{
			Name:     check.Name,
			Severity: SeverityOK,
			Detail:   detail,
			Took:     s.clock.Now().Sub(started),
		}
		if err != nil {
			result.Severity = SeverityWarning
			if check.Required {
				result.Severity = SeverityError
			}
			result.Detail = err.Error()
			result.Hint = check.Hint
		}

		s.logger.Debug().Str("check", check.Name).Str("severity", string(result.Severity)).Msg("doctor check")
		report.Results = append(report.Results, result)
	}

	return report
}

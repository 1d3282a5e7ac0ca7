package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing; search still answers.
	Degraded Status = "degraded"
	// Unhealthy indicates no catalog is loaded.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	// ClassifierAvailable is false when searches will use substring ranking.
	ClassifierAvailable bool
}

// Service coordinates health checks.
type Service struct {
	catalog    Checker
	cache      CachePinger
	classifier Checker
	configured bool
}

// New creates a Service. cache and classifier can be nil; configured tells
// whether a classifier is wired at all.
func New(catalog Checker, cache CachePinger, classifier Checker, configured bool) *Service {
	return &Service{catalog: catalog, cache: cache, classifier: classifier, configured: configured}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.catalog.HealthCheck(ctx); err != nil {
		checks["catalog"] = CheckError
		status = Unhealthy
	} else {
		checks["catalog"] = CheckOK
	}

	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx))
	}

	available := s.configured
	if s.classifier != nil {
		checks["classifier"] = result(s.classifier.HealthCheck(ctx))
		available = available && checks["classifier"] == CheckOK
	}

	if status == Healthy {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks, ClassifierAvailable: available}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}

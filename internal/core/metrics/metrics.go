package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"}, // ok / not_found / inactive / bad_password / error
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_registrations_total",
			Help: "Registration attempts by result.",
		},
		[]string{"result"},
	)

	ApplicationOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_application_ops_total",
			Help: "Application operations by kind and result.",
		},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(LoginsTotal, RegistrationsTotal, ApplicationOpsTotal)
}

// Result collapses err into a label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	SuccessfulRequests *prometheus.CounterVec
	BadRequests        *prometheus.CounterVec
	Signups            prometheus.Counter
	MessagesSent       prometheus.Counter
	FollowRequests     prometheus.Counter
	UnfollowRequests   prometheus.Counter
	LikeToggles        prometheus.Counter
}

func InitMetrics() *Metrics {
	m := &Metrics{
		SuccessfulRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "successful_request",
				Help: "Total number of successful (2xx) HTTP requests",
			},
			[]string{"path"},
		),
		BadRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unsuccessful_request",
				Help: "Total number of unsuccessful (4xx) HTTP requests",
			},
			[]string{"path"},
		),
		Signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "successful_signups",
			Help: "Total number of successful user registrations",
		}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "successful_messages",
			Help: "Total number of successfully posted messages",
		}),
		FollowRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "successful_follows",
			Help: "Total number of successful follow requests",
		}),
		UnfollowRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "successful_unfollows",
			Help: "Total number of successful unfollow requests",
		}),
		LikeToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "successful_like_toggles",
			Help: "Total number of successful like toggles",
		}),
	}

	prometheus.MustRegister(m.SuccessfulRequests)
	prometheus.MustRegister(m.BadRequests)
	prometheus.MustRegister(m.Signups)
	prometheus.MustRegister(m.MessagesSent)
	prometheus.MustRegister(m.FollowRequests)
	prometheus.MustRegister(m.UnfollowRequests)
	prometheus.MustRegister(m.LikeToggles)

	return m
}

// RequestMetrics counts requests by route template and outcome class.
func (m *Metrics) RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		status := c.Writer.Status()
		switch {
		case status >= 200 && status < 300:
			m.SuccessfulRequests.WithLabelValues(path).Inc()
		case status >= 400 && status < 500:
			m.BadRequests.WithLabelValues(path).Inc()
		}
	}
}

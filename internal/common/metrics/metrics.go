package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	// QuizSubmissions counts scored quiz submissions.
	QuizSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classroom_quiz_submissions_total",
		Help: "Number of quiz submissions scored.",
	})

	// QuestionsGenerated counts questions persisted by the generation step.
	QuestionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classroom_questions_generated_total",
		Help: "Number of questions generated and stored.",
	})

	// GenerationFailures counts failed upstream generation calls.
	GenerationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classroom_generation_failures_total",
		Help: "Number of failed question generation attempts.",
	})

	// XPGranted sums positive XP amounts applied through the ledger.
	XPGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classroom_xp_granted_total",
		Help: "Total XP granted across all users.",
	})

	// XPDeducted sums the magnitude of negative grants (corrections).
	XPDeducted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classroom_xp_deducted_total",
		Help: "Total XP removed by corrections across all users.",
	})

	// StreakUpdates counts streak transitions by outcome.
	StreakUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classroom_streak_updates_total",
		Help: "Streak engine transitions by outcome.",
	}, []string{"outcome"})

	// StreakFailures counts background streak updates that failed.
	StreakFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classroom_streak_failures_total",
		Help: "Background streak updates that errored.",
	})
)

// Handler exposes the prometheus registry on a gin route.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

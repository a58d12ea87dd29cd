package application

import "github.com/prometheus/client_golang/prometheus"

var (
	linkCodesIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "slfo_link_codes_issued_total",
		Help: "Link codes handed out to Discord users.",
	})

	linkRedemptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slfo_link_redemptions_total",
		Help: "Link code redemptions by result.",
	}, []string{"result"})

	commandsEnqueued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slfo_admin_commands_enqueued_total",
		Help: "Admin commands queued for the game server, by kind.",
	}, []string{"kind"})

	commandsReported = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slfo_admin_commands_reported_total",
		Help: "Admin command outcomes reported by the game server.",
	}, []string{"success"})

	profilesSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "slfo_profiles_saved_total",
		Help: "Profile snapshots pushed by the game server.",
	})

	roleSyncs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slfo_role_sync_total",
		Help: "Role reconciliation runs by outcome.",
	}, []string{"outcome"})

	roleCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "slfo_role_calls_total",
		Help: "Role add/remove calls made to Discord, by operation and result.",
	}, []string{"op", "result"})
)

func init() {
	prometheus.MustRegister(
		linkCodesIssued,
		linkRedemptions,
		commandsEnqueued,
		commandsReported,
		profilesSaved,
		roleSyncs,
		roleCalls,
	)
}

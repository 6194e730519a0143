package syncer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jawji/dronedeck/internal/state"
)

// Metrics exports synchronizer health. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	polls               *prometheus.CounterVec
	commands            *prometheus.CounterVec
	joystickFailures    prometheus.Counter
	connected           prometheus.Gauge
	version             prometheus.Gauge
	consecutiveFailures prometheus.Gauge
	battery             prometheus.Gauge
	altitude            prometheus.Gauge
	signal              prometheus.Gauge
}

// NewMetrics builds the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dronedeck_polls_total",
				Help: "Poll ticks by outcome (ok, error, discarded)",
			},
			[]string{"outcome"},
		),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dronedeck_commands_total",
				Help: "Dispatched commands by name and outcome",
			},
			[]string{"command", "outcome"},
		),
		joystickFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dronedeck_joystick_send_failures_total",
			Help: "Joystick samples the controller did not accept",
		}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dronedeck_connected",
			Help: "Drone link state (1=connected, 0=disconnected)",
		}),
		version: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dronedeck_snapshot_version",
			Help: "Version of the latest published snapshot",
		}),
		consecutiveFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dronedeck_consecutive_poll_failures",
			Help: "Failed polls since the last success",
		}),
		battery: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dronedeck_battery_percent",
			Help: "Last known battery percentage",
		}),
		altitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dronedeck_altitude_meters",
			Help: "Last known altitude",
		}),
		signal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dronedeck_signal_strength_percent",
			Help: "Last known link signal strength",
		}),
	}
	if reg != nil {
		for _, c := range m.Collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Collectors returns every collector owned by m.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.polls,
		m.commands,
		m.joystickFailures,
		m.connected,
		m.version,
		m.consecutiveFailures,
		m.battery,
		m.altitude,
		m.signal,
	}
}

func (m *Metrics) pollResult(outcome string) {
	if m == nil {
		return
	}
	m.polls.WithLabelValues(outcome).Inc()
}

func (m *Metrics) commandResult(command, outcome string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome).Inc()
}

func (m *Metrics) joystickFailed() {
	if m == nil {
		return
	}
	m.joystickFailures.Inc()
}

func (m *Metrics) observe(snap state.Snapshot) {
	if m == nil {
		return
	}
	if snap.Connected() {
		m.connected.Set(1)
	} else {
		m.connected.Set(0)
	}
	m.version.Set(float64(snap.Version))
	m.consecutiveFailures.Set(float64(snap.ConsecutiveFailures))
	m.battery.Set(snap.Drone.Battery.Percentage)
	m.altitude.Set(snap.Drone.Flight.Altitude)
	m.signal.Set(snap.Drone.Telemetry.SignalStrength)
}

package main

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"

	"github.com/edlorenzo/hpsensors/sensors"
	"github.com/edlorenzo/hpsensors/sensors/hpwmi"
	"github.com/edlorenzo/hpsensors/sensors/sim"
)

// CLI args
var (
	listenAddr   = flag.String("listen-address", ":9369", "The address to listen on for HTTP requests.")
	readInterval = flag.Duration("read-int", 15*time.Second, "time interval between sensor reads")
	simulate     = flag.Bool("sim", false, "poll a built-in simulated firmware instead of a real management channel")
	simSeed      = flag.Int64("sim-seed", 1, "seed for the simulated firmware's random walk")
)

// metrics to expose to Prometheus
var (
	gaugeTemperature = newGauge("hp_temperature_celsius", "Temperature sensor reading (units: degrees Celsius)")
	gaugeVoltage     = newGauge("hp_voltage_volts", "Voltage sensor reading (units: Volts)")
	gaugeCurrent     = newGauge("hp_current_amps", "Current sensor reading (units: Amps)")
	gaugeFan         = newGauge("hp_fan_rpm", "Fan tachometer reading (units: RPM)")

	gaugeFault = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hp_sensor_fault",
			Help: "1 when the sensor reports any state other than fully-OK with a non-zero reading",
		},
		[]string{"category", "channel", "label"},
	)

	gaugeLowest = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hp_sensor_lowest",
			Help: "Lowest reading observed since discovery or the last history reset, in the category's base unit",
		},
		[]string{"category", "channel", "label"},
	)

	gaugeHighest = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hp_sensor_highest",
			Help: "Highest reading observed since discovery or the last history reset, in the category's base unit",
		},
		[]string{"category", "channel", "label"},
	)

	counterReadErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hp_sensor_read_errors_total",
			Help: "Count of failed sensor reads",
		},
	)
)

func newGauge(name string, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		[]string{"channel", "label"},
	)
}

func init() {
	prometheus.MustRegister(gaugeTemperature)
	prometheus.MustRegister(gaugeVoltage)
	prometheus.MustRegister(gaugeCurrent)
	prometheus.MustRegister(gaugeFan)
	prometheus.MustRegister(gaugeFault)
	prometheus.MustRegister(gaugeLowest)
	prometheus.MustRegister(gaugeHighest)
	prometheus.MustRegister(counterReadErrors)

	prometheus.MustRegister(version.NewCollector("hpsensors"))

	//logging
	formatter := &log.TextFormatter{
		FullTimestamp: true,
	}
	log.SetFormatter(formatter)
}

// applyEnv fills flags that were not given on the command line from
// HPSENSORS_* environment variables, which a .env file may supply.
func applyEnv() {
	given := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { given[f.Name] = true })

	flag.VisitAll(func(f *flag.Flag) {
		if given[f.Name] {
			return
		}
		key := "HPSENSORS_" + strings.ToUpper(strings.Replace(f.Name, "-", "_", -1))
		if v, ok := os.LookupEnv(key); ok {
			if err := f.Value.Set(v); err != nil {
				log.Warnf("ignoring %s=%q: %s", key, v, err)
			}
		}
	})
}

func main() {
	_ = godotenv.Load()
	flag.Parse()
	applyEnv()

	transport, err := newTransport()
	if err != nil {
		log.Fatalf("no sensor transport: %s", err)
	}

	chip, err := hpwmi.Discover(transport)
	if err != nil {
		log.Fatalf("sensor discovery failed: %s", err)
	}
	defer chip.Close()

	for _, cat := range sensors.Categories() {
		if n := chip.Channels(cat); n > 0 {
			log.Printf("discovered %d %s channel(s)", n, cat)
		}
	}

	go func() {
		log.Panic(http.ListenAndServe(*listenAddr, newRouter(chip)))
	}()
	log.Printf("listening on %s", *listenAddr)

	for {
		collect(chip)
		time.Sleep(*readInterval)
	}
}

func newTransport() (sensors.Transport, error) {
	if *simulate {
		return sim.DefaultProfile(*simSeed), nil
	}

	// The real management channel is platform firmware; it has to be
	// wired in by the embedder. This binary only ships the simulator.
	return nil, errors.New("no platform management channel on this build; run with -sim")
}

func newRouter(chip *hpwmi.Chip) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics to support exemplars.
			EnableOpenMetrics: true,
		},
	))

	r.HandleFunc("/sensors", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, chip.Snapshots())
	}).Methods(http.MethodGet)

	r.HandleFunc("/sensors/{instance:[0-9]+}", func(w http.ResponseWriter, req *http.Request) {
		n, err := strconv.ParseUint(mux.Vars(req)["instance"], 10, 8)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		snap, err := chip.Instance(uint8(n))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, snap)
	}).Methods(http.MethodGet)

	r.HandleFunc("/update_interval", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, chip.UpdateInterval())
	}).Methods(http.MethodGet)

	r.HandleFunc("/update_interval", func(w http.ResponseWriter, req *http.Request) {
		body, err := ioutil.ReadAll(req.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ms, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := chip.SetUpdateInterval(ms); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, ms)
	}).Methods(http.MethodPut)

	r.HandleFunc("/history_reset/{category}", func(w http.ResponseWriter, req *http.Request) {
		cat, ok := categoryByName(mux.Vars(req)["category"])
		if !ok {
			http.Error(w, "unknown category", http.StatusNotFound)
			return
		}
		chip.ResetHistory(cat)
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPut)

	r.HandleFunc("/history_reset/{category}/{channel:[0-9]+}", func(w http.ResponseWriter, req *http.Request) {
		cat, ok := categoryByName(mux.Vars(req)["category"])
		if !ok {
			http.Error(w, "unknown category", http.StatusNotFound)
			return
		}
		ch, err := strconv.Atoi(mux.Vars(req)["channel"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := chip.ResetChannelHistory(cat, ch); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPut)

	return r
}

func categoryByName(name string) (sensors.Category, bool) {
	for _, cat := range sensors.Categories() {
		if cat.String() == name {
			return cat, true
		}
	}
	return 0, false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("write response: %s", err)
	}
}

func collect(chip *hpwmi.Chip) {
	for _, cat := range sensors.Categories() {
		for ch := 0; ch < chip.Channels(cat); ch++ {
			label, err := chip.ReadLabel(cat, ch)
			if err != nil {
				log.Errorf("failed to read %s label %d: %s", cat, ch, err)
				continue
			}

			val, err := chip.Read(cat, sensors.AttrInput, ch)
			if err != nil {
				log.Errorf("failed to read from sensor %q: %s", label, err)
				counterReadErrors.Inc()
				continue
			}

			channel := strconv.Itoa(ch)
			switch cat {
			case sensors.Temperature:
				gaugeTemperature.WithLabelValues(channel, label).Set(float64(val) / 1000)
			case sensors.Voltage:
				gaugeVoltage.WithLabelValues(channel, label).Set(float64(val) / 1000)
			case sensors.Current:
				gaugeCurrent.WithLabelValues(channel, label).Set(float64(val) / 1000)
			case sensors.Fan:
				gaugeFan.WithLabelValues(channel, label).Set(float64(val))
			}

			if chip.IsVisible(cat, sensors.AttrFault, ch) {
				fault, err := chip.Read(cat, sensors.AttrFault, ch)
				if err == nil {
					gaugeFault.WithLabelValues(cat.String(), channel, label).Set(float64(fault))
				}
			}

			// Historical extremes, where the channel keeps them. Fans
			// don't, so the milli division is always right.
			if chip.IsVisible(cat, sensors.AttrLowest, ch) {
				if lo, err := chip.Read(cat, sensors.AttrLowest, ch); err == nil {
					gaugeLowest.WithLabelValues(cat.String(), channel, label).Set(float64(lo) / 1000)
				}
			}
			if chip.IsVisible(cat, sensors.AttrHighest, ch) {
				if hi, err := chip.Read(cat, sensors.AttrHighest, ch); err == nil {
					gaugeHighest.WithLabelValues(cat.String(), channel, label).Set(float64(hi) / 1000)
				}
			}
		}
	}
}

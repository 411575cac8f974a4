package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/caarlos0/env/v6"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"gopkg.in/yaml.v2"

	"github.com/optobench/optobench/comms"
	"github.com/optobench/optobench/equipment"
)

type EnvConfig struct {
	DEBUG  bool   `env:"DEBUG" envDefault:"0"`
	CONFIG string `env:"BENCH_CONFIG" envDefault:"./bench_config.yaml"`
	LISTEN string `env:"LISTEN" envDefault:"0.0.0.0:8089"`
}

var ENV *EnvConfig

func init() {
	ENV = new(EnvConfig)
	if err := env.Parse(ENV); err != nil {
		panic(err)
	}
}

func main() {
	simulated := flag.Bool("sim", false, "Run the bench against simulated controllers")
	listen := flag.String("listen", ENV.LISTEN, "Specify the ip:port for the notification/info endpoints")
	configPath := flag.String("config", ENV.CONFIG, "Path to the bench yaml config")
	flag.Parse()

	yamlFile, err := os.ReadFile(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Unable to read yaml file: %v", err))
	}

	var config equipment.BenchConfig
	if err = yaml.Unmarshal(yamlFile, &config); err != nil {
		panic(fmt.Sprintf("Unable to unmarshal yaml: %v", err))
	}

	// Vendor SDK bindings plug in behind this interface; only the
	// simulator ships with the repo.
	var sdk equipment.SDK
	if *simulated {
		println("Creating simulated controllers")
		sim := &equipment.SimSDK{}
		defer sim.Close()
		sdk = sim
	} else {
		panic("no vendor SDK linked into this build; run with -sim")
	}

	conductor := comms.NewConductor()

	bench, err := equipment.NewBench(sdk, config, conductor)
	if err != nil {
		panic(fmt.Sprintf("Unable to initialize bench: %v", err))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if ENV.DEBUG {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Recoverer) // make sure this is last
	r.Mount("/", conductor.Router(bench))

	go func() {
		if err := http.ListenAndServe(*listen, r); err != nil {
			log.Fatal(err)
		}
	}()

	runShell(bench)
}

func runShell(bench *equipment.Bench) {
	aliases := func([]string) []string {
		keys := make([]string, 0, len(bench.Devices))
		for k := range bench.Devices {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	}

	device := func(c *ishell.Context) equipment.MotionDevice {
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("device alias required"))
			return nil
		}
		dev, err := bench.Device(c.Args[0])
		if err != nil {
			c.Err(err)
			return nil
		}
		return dev
	}

	shell := ishell.New()
	shell.Println("optobench control shell")
	shell.ShowPrompt(true)

	shell.AddCmd(&ishell.Cmd{
		Name: "devices",
		Help: "list connected devices",
		Func: func(c *ishell.Context) {
			for _, alias := range aliases(nil) {
				c.Println(alias)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name:      "position",
		Completer: aliases,
		Help:      "position <alias>",
		Func: func(c *ishell.Context) {
			dev := device(c)
			if dev == nil {
				return
			}
			pos, err := dev.GetPosition()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%v\n", pos)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name:      "move",
		Completer: aliases,
		Help:      "move <alias> <position>",
		Func: func(c *ishell.Context) {
			dev := device(c)
			if dev == nil || len(c.Args) < 2 {
				return
			}
			target, err := strconv.ParseFloat(c.Args[1], 64)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("Moving %s to %v\n", c.Args[0], target)
			if err := dev.SetPosition(target, true); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name:      "home",
		Completer: aliases,
		Help:      "home <alias>",
		Func: func(c *ishell.Context) {
			dev := device(c)
			if dev == nil {
				return
			}
			homer, ok := dev.(interface{ Home(wait bool) error })
			if !ok {
				c.Err(fmt.Errorf("%s cannot home", c.Args[0]))
				return
			}
			c.Printf("Homing %s\n", c.Args[0])
			if err := homer.Home(true); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name:      "wait",
		Completer: aliases,
		Help:      "wait <alias> <timeout seconds>",
		Func: func(c *ishell.Context) {
			dev := device(c)
			if dev == nil || len(c.Args) < 2 {
				return
			}
			seconds, err := strconv.ParseFloat(c.Args[1], 64)
			if err != nil {
				c.Err(err)
				return
			}
			if err := dev.Wait(time.Duration(seconds * float64(time.Second))); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name:      "stop",
		Completer: aliases,
		Help:      "stop <alias>",
		Func: func(c *ishell.Context) {
			dev := device(c)
			if dev == nil {
				return
			}
			if err := dev.Stop(); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name:      "info",
		Completer: aliases,
		Help:      "info <alias>",
		Func: func(c *ishell.Context) {
			dev := device(c)
			if dev == nil {
				return
			}
			moving, err := dev.IsMoving()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("moving: %v\n", moving)
			for k, v := range dev.Info() {
				c.Printf("%s: %v\n", k, v)
			}
		},
	})

	shell.Start()
}

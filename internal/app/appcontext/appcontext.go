package appcontext

type Env int

const (
	// EnvServer serves the HTTP API and runs the background workers.
	EnvServer Env = iota
	// EnvWorker only runs the background workers.
	EnvWorker
	// EnvCLI runs a one-shot command. Workers and the HTTP listener stay idle.
	EnvCLI
)

func (e Env) String() string {
	switch e {
	case EnvServer:
		return "server"
	case EnvWorker:
		return "worker"
	case EnvCLI:
		return "cli"
	default:
		return "unknown"
	}
}

type Ctx struct {
	Env Env
}

func Declare(env Env) Ctx {
	return Ctx{
		Env: env,
	}
}

// RunsWorkers reports whether queue consumers and schedulers should start.
func (c Ctx) RunsWorkers() bool {
	return c.Env == EnvServer || c.Env == EnvWorker
}

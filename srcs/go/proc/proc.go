package proc

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/lsds/hia2a/srcs/go/plan"
)

type Envs map[string]string

func (e Envs) AddIfMissing(k, v string) {
	if _, ok := e[k]; !ok {
		e[k] = v
	}
}

func (e Envs) keys() []string {
	var ks []string
	for k := range e {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func Merge(e, f Envs) Envs {
	g := make(Envs)
	for k, v := range e {
		g[k] = v
	}
	for k, v := range f {
		g[k] = v
	}
	return g
}

// Proc represents a worker process of a job
type Proc struct {
	Name    string
	Prog    string
	Args    []string
	Envs    Envs
	IPv4    uint32
	PubAddr string
	LogDir  string
}

func (p Proc) Host() string {
	if len(p.PubAddr) > 0 {
		return p.PubAddr
	}
	return plan.FormatIPv4(p.IPv4)
}

func (p Proc) Cmd() *exec.Cmd {
	cmd := exec.Command(p.Prog, p.Args...)
	cmd.Env = updatedEnvFrom(p.Envs, os.Environ())
	return cmd
}

// Script is a shell command running p with its environment, for remote execution.
func (p Proc) Script() string {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "env \\\n")
	for _, k := range p.Envs.keys() {
		fmt.Fprintf(buf, "\t%s=%q \\\n", k, p.Envs[k])
	}
	fmt.Fprintf(buf, "\t%s", p.Prog)
	for _, a := range p.Args {
		fmt.Fprintf(buf, " \\\n\t%q", a)
	}
	fmt.Fprintf(buf, "\n")
	return buf.String()
}

func parseEnv(envs []string) Envs {
	envMap := make(Envs)
	for _, kv := range envs {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}
	return envMap
}

func updatedEnvFrom(newValues Envs, oldEnvs []string) []string {
	envMap := Merge(parseEnv(oldEnvs), newValues)
	var envs []string
	for _, k := range envMap.keys() {
		envs = append(envs, fmt.Sprintf("%s=%s", k, envMap[k]))
	}
	return envs
}

package runner

import (
	"errors"
	"flag"
	"time"

	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/lsds/hia2a/srcs/go/plan/clusterfile"
	"github.com/lsds/hia2a/srcs/go/plan/hostfile"
	"github.com/lsds/hia2a/srcs/go/utils"
)

func Init(f *FlagSet, args []string) {
	if err := f.Parse(args); err != nil {
		utils.ExitErr(err)
	}
	if !f.Quiet {
		utils.LogArgs()
		utils.LogHia2aEnv()
	}
}

type FlagSet struct {
	ClusterSize int
	hostList    string
	hostFile    string
	clusterFile string
	HostList    plan.HostList

	User   string
	Remote bool

	PortRange plan.PortRange

	Self       string
	NIC        string
	Timeout    time.Duration
	VerboseLog bool

	Logfile string
	LogDir  string
	Quiet   bool

	Prog string
	Args []string
}

func (f *FlagSet) Register(flag *flag.FlagSet) {
	flag.IntVar(&f.ClusterSize, "np", 1, "number of peers")
	flag.StringVar(&f.hostList, "H", plan.DefaultHostList.String(), "comma separated list of <internal IP>:<nslots>[:<public addr>]")
	flag.StringVar(&f.hostFile, "hostfile", "", "path to hostfile, will override -H if specified")
	flag.StringVar(&f.clusterFile, "cluster", "", "path to YAML cluster file, will override -H, -hostfile and -port-range if specified")

	flag.StringVar(&f.User, "u", "", "user name for ssh")
	flag.BoolVar(&f.Remote, "remote", false, "start all peers over ssh from this host")

	f.PortRange = plan.DefaultPortRange
	flag.Var(&f.PortRange, "port-range", "port range for the peers")

	flag.StringVar(&f.Self, "self", "", "internal IPv4")
	flag.StringVar(&f.NIC, "nic", "", "network interface name, for infer self IP")
	flag.DurationVar(&f.Timeout, "timeout", 0, "timeout")
	flag.BoolVar(&f.VerboseLog, "v", true, "show task log")

	flag.StringVar(&f.Logfile, "logfile", "", "path to log file")
	flag.StringVar(&f.LogDir, "logdir", "", "path to log dir")
	flag.BoolVar(&f.Quiet, "q", false, "don't log debug info")
}

var errMissingProgramName = errors.New("missing program name")

func (f *FlagSet) Parse(args []string) error {
	commandLine := flag.NewFlagSet(args[0], flag.ExitOnError)
	f.Register(commandLine)
	commandLine.Parse(args[1:])
	if err := f.resolveHostList(); err != nil {
		return err
	}
	args = commandLine.Args()
	if len(args) < 1 {
		return errMissingProgramName
	}
	f.Prog = args[0]
	f.Args = args[1:]
	return nil
}

func (f *FlagSet) resolveHostList() error {
	switch {
	case len(f.clusterFile) > 0:
		c, err := clusterfile.ParseFile(f.clusterFile)
		if err != nil {
			return err
		}
		f.HostList = c.HostList
		f.PortRange = c.PortRange
	case len(f.hostFile) > 0:
		hl, err := hostfile.ParseFile(f.hostFile)
		if err != nil {
			return err
		}
		f.HostList = hl
	default:
		hl, err := plan.ParseHostList(f.hostList)
		if err != nil {
			return err
		}
		f.HostList = hl
	}
	return nil
}

package env

// Internal environment variables set by hia2a-run, users should not set them.
const (
	SelfSpecEnvKey = `HIA2A_SELF_SPEC` // self spec should never change during the life of a process
	PeerListEnvKey = `HIA2A_INIT_PEERS`
	JobIDEnvKey    = `HIA2A_JOB_ID`
)

// HostnameEnvKey overrides the host name used for node discovery.
const HostnameEnvKey = `HIA2A_HOSTNAME`

var InternalEnvKeys = []string{
	SelfSpecEnvKey,
	PeerListEnvKey,
	JobIDEnvKey,
}

package version

var (
	// GitCommit is the current HEAD set using ldflags.
	GitCommit string

	// Version is the built softwares version.
	Version = SemVer
)

func init() {
	if GitCommit != "" {
		Version += "-" + GitCommit
	}
}

const (
	// SemVer is the current version of auctiond.
	SemVer = "0.1.0"

	// AppProtocol versions the state machine. It changes whenever the same
	// transactions could produce a different app hash.
	AppProtocol uint64 = 1
)

package version

// Version is overridden at build time with
// -ldflags "-X github.com/bnema/paymail/internal/version.Version=<tag>".
var Version = "dev"

package cascade

// Version is the library release, overridable at build time via
// -ldflags "-X github.com/aretw0/cascade.Version=...".
var Version = "0.1.0"

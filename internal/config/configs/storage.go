package configs

// Storage selects where the store snapshot lives. Backend is one of "file",
// "sqlite" or "memory". An empty Path resolves to the per-user config
// directory. Scope "session" keeps only the session subset; "full" also
// keeps campaigns, conversations and API keys.
type Storage struct {
	Backend string `env:"BACKEND" envDefault:"file"`
	Path    string `env:"PATH"`
	Key     string `env:"KEY" envDefault:"marketing-ai-storage"`
	Scope   string `env:"SCOPE" envDefault:"full"`
}

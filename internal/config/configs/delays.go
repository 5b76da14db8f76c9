package configs

import "time"

// Delays are the simulated latencies. Set them to 0 for instant responses.
type Delays struct {
	Save      time.Duration `env:"SAVE" envDefault:"1500ms"`
	Edit      time.Duration `env:"EDIT" envDefault:"1000ms"`
	LoadMore  time.Duration `env:"LOAD_MORE" envDefault:"500ms"`
	TypingMin time.Duration `env:"TYPING_MIN" envDefault:"1000ms"`
	TypingMax time.Duration `env:"TYPING_MAX" envDefault:"2500ms"`
	Reset     time.Duration `env:"RESET" envDefault:"300ms"`
}

package agent

// GeneralAgent handles greetings and small talk without calling the oracle.
type GeneralAgent struct{}

func (GeneralAgent) Reply() string { return Greeting }

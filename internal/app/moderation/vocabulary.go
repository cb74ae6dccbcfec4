package moderation

// defaultVocabulary is the built-in set of disallowed words. Deployments
// adjust it through the PROFANITY_ADD / PROFANITY_REMOVE configuration
// overrides applied in NewPipeline.
var defaultVocabulary = []string{
	"arse",
	"ass",
	"asshole",
	"bastard",
	"bitch",
	"bollocks",
	"crap",
	"cunt",
	"damn",
	"dick",
	"douche",
	"fuck",
	"fucker",
	"fucking",
	"goddamn",
	"hell",
	"jackass",
	"motherfucker",
	"piss",
	"prick",
	"shit",
	"shitty",
	"slut",
	"twat",
	"wanker",
	"whore",
}

package analysis

// valence maps lowercase tokens to an AFINN-style score in [-5, 5].
// Trimmed to vocabulary that actually occurs in news headlines.
var valence = map[string]float64{
	"abandon": -2, "abuse": -3, "accident": -2, "accuse": -2, "achievement": 3,
	"admire": 3, "advance": 2, "adversary": -1, "afraid": -2, "aggression": -2,
	"agree": 1, "agreement": 1, "alarm": -2, "alarming": -2, "alert": -1,
	"alive": 1, "ally": 1, "ambush": -2, "anger": -3, "angry": -3,
	"anxiety": -2, "apology": 1, "appalling": -3, "applaud": 2, "arrest": -2,
	"assault": -3, "atrocity": -4, "attack": -3, "avert": 1, "award": 3,
	"awful": -3, "bad": -3, "bailout": -1, "ban": -2, "bankrupt": -3,
	"battle": -2, "beautiful": 3, "benefit": 2, "best": 3, "betray": -3,
	"blame": -2, "blast": -2, "bless": 2, "block": -1, "blockade": -2,
	"bomb": -3, "bombing": -3, "boom": 1, "boost": 2, "brave": 2,
	"breach": -2, "breakthrough": 3, "bribe": -3, "bright": 1, "brilliant": 4,
	"broke": -2, "broken": -1, "brutal": -3, "calm": 2, "cancel": -1,
	"capture": -1, "casualty": -2, "catastrophe": -4, "celebrate": 3,
	"celebration": 3, "champion": 2, "chaos": -3, "charge": -1, "cheer": 2,
	"clash": -2, "collapse": -2, "collision": -2, "combat": -2, "comfort": 2,
	"commend": 2, "concern": -2, "condemn": -2, "confident": 2, "conflict": -2,
	"confront": -1, "congratulate": 2, "conquer": 1, "conspiracy": -3,
	"controversy": -2, "corrupt": -3, "corruption": -3, "courage": 2,
	"crash": -2, "crime": -2, "criminal": -3, "crisis": -3, "critical": -2,
	"cruel": -3, "cure": 2, "cut": -1, "damage": -3, "danger": -2,
	"dangerous": -2, "dead": -3, "deadlock": -2, "deadly": -3, "death": -2,
	"debt": -2, "decline": -2, "defeat": -2, "defend": 1, "deficit": -2,
	"delay": -1, "demolish": -2, "deny": -1, "despair": -3, "destroy": -3,
	"destruction": -3, "devastate": -3, "die": -3, "disaster": -3,
	"discover": 2, "disease": -3, "dismiss": -2, "dispute": -2, "disrupt": -2,
	"divided": -1, "doom": -3, "doubt": -1, "dread": -2, "drop": -1,
	"drought": -2, "drown": -2, "embrace": 1, "emergency": -2, "encourage": 2,
	"enemy": -2, "enjoy": 2, "epidemic": -3, "erupt": -2, "escape": -1,
	"evacuate": -2, "excellent": 3, "excite": 3, "execute": -3, "explode": -2,
	"explosion": -2, "fail": -2, "failure": -2, "fake": -3, "fall": -1,
	"famine": -3, "fantastic": 4, "fatal": -3, "fear": -2, "fight": -1,
	"fine": 2, "fire": -2, "flee": -2, "flood": -2, "flourish": 2,
	"fraud": -4, "free": 1, "freedom": 2, "fresh": 1, "gain": 2,
	"generous": 2, "genocide": -5, "glad": 3, "good": 3, "grateful": 3,
	"great": 3, "grim": -2, "grow": 1, "growth": 2, "guilty": -3,
	"happy": 3, "harm": -2, "harsh": -2, "hate": -3, "heal": 2,
	"healthy": 2, "help": 2, "hero": 2, "honor": 2, "hope": 2,
	"hopeful": 2, "horrible": -3, "horror": -3, "hostage": -2, "hostile": -2,
	"hunger": -2, "hurt": -2, "illegal": -3, "improve": 2, "improvement": 2,
	"indict": -2, "infect": -2, "inflation": -2, "injure": -2, "injury": -2,
	"innocent": 1, "innovation": 1, "inspire": 2, "invade": -2, "invasion": -2,
	"jail": -2, "jeopardy": -2, "job": 1, "joy": 3, "kidnap": -3,
	"kill": -3, "killing": -3, "landmark": 1, "launch": 1, "lawsuit": -2,
	"layoff": -2, "leak": -1, "liberty": 2, "lie": -2, "lose": -3,
	"loss": -3, "lost": -3, "love": 3, "lucky": 3, "massacre": -4,
	"menace": -2, "mercy": 2, "milestone": 2, "miracle": 4, "miss": -2,
	"mistake": -2, "murder": -3, "negative": -2, "neglect": -2, "nice": 3,
	"oppose": -1, "optimistic": 2, "outbreak": -2, "outrage": -3,
	"overcome": 2, "panic": -3, "pardon": 1, "peace": 2, "peaceful": 2,
	"perfect": 3, "peril": -2, "plague": -3, "pledge": 1, "plunge": -2,
	"poison": -2, "pollution": -2, "poor": -2, "positive": 2, "poverty": -2,
	"praise": 3, "pride": 2, "prison": -2, "problem": -2, "profit": 2,
	"progress": 2, "promise": 1, "promote": 1, "prosper": 3, "protect": 1,
	"protest": -2, "proud": 2, "punish": -2, "quake": -2, "quit": -1,
	"rally": 1, "ransom": -2, "rape": -4, "ravage": -3, "rebel": -2,
	"rebuild": 2, "recession": -2, "reconcile": 2, "record": 1, "recover": 2,
	"recovery": 2, "reform": 1, "refugee": -1, "reject": -1, "relief": 2,
	"rescue": 2, "resign": -1, "resolve": 2, "restore": 1, "revive": 2,
	"reward": 2, "riot": -3, "rise": 1, "risk": -2, "rob": -2,
	"ruin": -2, "sabotage": -2, "sad": -2, "safe": 1, "sanction": -2,
	"save": 2, "scandal": -3, "scare": -2, "secure": 2, "seize": -1,
	"shock": -2, "shoot": -2, "shooting": -3, "shortage": -2, "shut": -1,
	"sick": -2, "siege": -2, "slam": -2, "slaughter": -4, "slump": -2,
	"smart": 1, "smuggle": -2, "solution": 1, "solve": 1, "stable": 1,
	"steal": -2, "storm": -2, "strength": 2, "strike": -1, "strong": 2,
	"struggle": -2, "succeed": 3, "success": 2, "successful": 3, "sue": -2,
	"suffer": -2, "suicide": -2, "support": 2, "surge": 1, "surrender": -1,
	"survive": 2, "suspect": -1, "suspend": -1, "tension": -2, "terror": -3,
	"terrorism": -3, "terrorist": -3, "threat": -2, "threaten": -2,
	"thrive": 2, "tragedy": -3, "tragic": -3, "trap": -1, "trauma": -3,
	"triumph": 4, "trouble": -2, "truce": 1, "trust": 1, "unemployment": -2,
	"unite": 1, "unity": 2, "unrest": -2, "uprising": -2, "upset": -2,
	"urgent": -1, "victim": -3, "victory": 3, "violence": -3, "violent": -3,
	"virus": -2, "vital": 1, "vow": 1, "war": -2, "warn": -2,
	"warning": -3, "waste": -1, "weak": -2, "wealth": 2, "welcome": 2,
	"welfare": 1, "win": 4, "winner": 4, "wonderful": 4, "worry": -3,
	"worse": -3, "worst": -3, "wound": -2, "wreck": -2, "wrong": -2,
}

// boosters adjust the valence of the following token (simplified VADER
// intensity handling).
var boosters = map[string]float64{
	"absolutely": 0.293, "amazingly": 0.293, "completely": 0.293,
	"considerably": 0.293, "deeply": 0.293, "enormously": 0.293,
	"entirely": 0.293, "especially": 0.293, "extremely": 0.293,
	"greatly": 0.293, "highly": 0.293, "hugely": 0.293, "incredibly": 0.293,
	"really": 0.293, "remarkably": 0.293, "so": 0.293, "totally": 0.293,
	"utterly": 0.293, "very": 0.293,
	"almost": -0.293, "barely": -0.293, "hardly": -0.293, "less": -0.293,
	"marginally": -0.293, "partly": -0.293, "slightly": -0.293,
	"somewhat": -0.293,
}

// negations flip the sign of the following token.
var negations = map[string]bool{
	"not": true, "no": true, "never": true, "neither": true, "nobody": true,
	"none": true, "nor": true, "nothing": true, "without": true,
	"cannot": true, "cant": true, "dont": true, "wont": true, "isnt": true,
	"wasnt": true, "shouldnt": true, "couldnt": true, "wouldnt": true,
}

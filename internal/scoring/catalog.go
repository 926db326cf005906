package scoring

import "github.com/resonancehq/archetype-api/internal/domain"

// signals maps questionID -> optionID -> archetype signal set. The role
// question (q1) carries no signals: role selection contextualizes copy,
// it is not scoring evidence.
var signals = map[string]map[string][]string{
	"q1": {
		"engineer": nil,
		"manager":  nil,
		"designer": nil,
		"founder":  nil,
		"other":    nil,
	},
	"q2": {
		"unblock-others":  {domain.ArchetypeGlue},
		"sketch-future":   {domain.ArchetypeVisionary},
		"design-system":   {domain.ArchetypeArchitect},
		"ship-steadily":   {domain.ArchetypeOperator},
		"rally-the-room":  {domain.ArchetypeCatalyst},
		"depends-on-week": {domain.ArchetypeGlue, domain.ArchetypeOperator},
	},
	"q3": {
		"write-the-doc":    {domain.ArchetypeArchitect},
		"call-a-huddle":    {domain.ArchetypeGlue},
		"prototype-first":  {domain.ArchetypeVisionary},
		"triage-and-split": {domain.ArchetypeOperator},
		"pitch-a-bet":      {domain.ArchetypeCatalyst, domain.ArchetypeVisionary},
	},
	"q4": {
		"pairing":       {domain.ArchetypeGlue},
		"roadmapping":   {domain.ArchetypeVisionary},
		"refactoring":   {domain.ArchetypeArchitect},
		"automating":    {domain.ArchetypeOperator},
		"demoing":       {domain.ArchetypeCatalyst},
		"reviewing-prs": {domain.ArchetypeGlue, domain.ArchetypeArchitect},
	},
	"q5": {
		"team-unstuck":   {domain.ArchetypeGlue},
		"big-picture":    {domain.ArchetypeVisionary},
		"clean-design":   {domain.ArchetypeArchitect},
		"quiet-reliable": {domain.ArchetypeOperator},
		"momentum-maker": {domain.ArchetypeCatalyst},
		"all-of-the-above": {
			domain.ArchetypeGlue,
			domain.ArchetypeVisionary,
			domain.ArchetypeArchitect,
			domain.ArchetypeOperator,
			domain.ArchetypeCatalyst,
		},
	},
	"q6": {
		"handoffs":      {domain.ArchetypeGlue},
		"horizons":      {domain.ArchetypeVisionary},
		"foundations":   {domain.ArchetypeArchitect},
		"checklists":    {domain.ArchetypeOperator},
		"launch-energy": {domain.ArchetypeCatalyst},
	},
}

// phrasePools holds per-archetype display phrases. Three are sampled at
// submission time and frozen into the record.
var phrasePools = map[string][]string{
	domain.ArchetypeGlue: {
		"keeps the threads connected",
		"turns blockers into handoffs",
		"the teammate everyone routes through",
		"quietly makes the team faster",
		"context is their superpower",
	},
	domain.ArchetypeVisionary: {
		"sees the product two releases out",
		"sketches futures worth chasing",
		"asks the question nobody thought to",
		"turns maybes into roadmaps",
		"comfortable with the unproven",
	},
	domain.ArchetypeArchitect: {
		"draws the boundaries that last",
		"allergic to accidental complexity",
		"builds for the tenth use, not the first",
		"the diagram was already in their head",
		"names things so they stay named",
	},
	domain.ArchetypeOperator: {
		"ships on the quiet cadence",
		"automates the boring away",
		"the pager stays silent on their watch",
		"reliability is a feature they own",
		"steady hands in a noisy sprint",
	},
	domain.ArchetypeCatalyst: {
		"turns demos into believers",
		"momentum follows them around",
		"starts the fire worth tending",
		"makes the room lean forward",
		"first to say let's just try it",
	},
}

package api

// sampleQuestions are shown to new users as starting points. Each one is
// answerable from the seeded knowledge graph.
var sampleQuestions = []string{
	"What coffees are from Italy?",
	"Show me all espresso-based coffees",
	"Which coffees have no milk?",
	"What coffees use steamed milk?",
	"Tell me about espresso",
	"Which coffees are from Indonesia?",
	"What coffees are boiled?",
	"Show me coffees with chocolate",
	"Which coffees are served in a tall glass?",
}

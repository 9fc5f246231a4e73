package nl2cypher

import "fmt"

// schemaDescription is static configuration for the translator prompt, not
// logic: entity and relationship vocabulary plus the code-vs-name matching
// convention (filter on code, display name).
const schemaDescription = `Coffee Knowledge Graph Schema:

Node Types:
- Coffee: Individual coffee beverages (e.g., espresso, latte)
- Base: Coffee base type (espresso, brewed_coffee)
- MilkType: Type of milk used (none, steamed_milk, foamed_milk, microfoam, steamed_and_foamed)
- Additive: Extra ingredients (none, hot_water, sugar, chocolate)
- Preparation: Brewing method (pressure, boiled, diluted, combined)
- Serving: Serving style (small_cup, demitasse, large_cup, tall_glass, cup, unfiltered)
- Country: Country of origin (italy, portugal, australia_new_zealand, indonesia, greece)

Relationship Types:
- HAS_BASE: Coffee -> Base
- USES_MILK: Coffee -> MilkType
- CONTAINS: Coffee -> Additive
- PREPARED_BY: Coffee -> Preparation
- SERVED_IN: Coffee -> Serving
- ORIGINATES_FROM: Coffee -> Country
- SIMILAR_TO: Coffee <-> Coffee (bidirectional similarity)

Coffee Properties:
- code (string): Machine-matchable identifier
- name (string): Coffee name
- description (string): Description of the coffee
- volume_ml (integer): Typical serving volume
- caffeine_level (string): high, medium, or low

Available Coffees (11 total):
espresso, bica, americano, latte, caffe_macchiato, cappuccino,
flat_white, latte_macchiato, kopi_tubruk, greek_coffee, cafe_mocha`

const cypherSystemPrompt = `You are an expert at converting natural language questions into Neo4j Cypher queries.

` + schemaDescription + `

Important Rules:
1. Generate ONLY valid Cypher query syntax
2. Do NOT include explanations, markdown, or any text except the query
3. Use MATCH patterns for retrieving data
4. Use proper relationship directions
5. ALWAYS use 'code' property for WHERE clause filtering (not 'name')
6. ALWAYS use 'name' property in RETURN clause for display
7. Order results when appropriate
8. Limit results to reasonable numbers (e.g., LIMIT 50)
9. For comparison queries, return data from both entities
10. If the question is NOT about coffee beverages or this schema, respond with exactly ` + OutOfScopeSentinel + ` and nothing else

Example transformations:
- "coffees from Italy" -> MATCH (c:Coffee)-[:ORIGINATES_FROM]->(o:Country) WHERE o.code = 'italy' RETURN c.name
- "espresso-based coffees" -> MATCH (c:Coffee)-[:HAS_BASE]->(b:Base) WHERE b.code = 'espresso' RETURN c.name ORDER BY c.name
- "coffees with no milk" -> MATCH (c:Coffee)-[:USES_MILK]->(m:MilkType) WHERE m.code = 'none' RETURN c.name
- "what is espresso" -> MATCH (c:Coffee {code: 'espresso'}) OPTIONAL MATCH (c)-[r]-(n) RETURN c.name, type(r), labels(n)[0] AS node_type, n.name

Generate ONLY the Cypher query, nothing else.`

const formatSystemPrompt = `You are a helpful assistant that explains coffee knowledge graph query results in natural language.
Convert the technical query results into a friendly, informative response.
If there is exactly one result with a single field, answer with one plain descriptive sentence and no numbering.
Otherwise begin with a brief lead-in sentence (without mentioning any knowledge graph or data source), then present the results as a strictly numbered list in the exact format:
1. Item
2. Item
3. Item
Each number must be on its own line. Never place multiple items on one line and never join items with semicolons.
Every sentence must be grammatically complete. Render missing or unknown values as "not specified" instead of omitting them.
Leave no extra text after the list.`

func cypherUserPrompt(question, priorHint string) string {
	if priorHint == "" {
		return question
	}
	return fmt.Sprintf("%s\n\nThe previous attempt was rejected: %s\nGenerate a corrected Cypher query.", question, priorHint)
}

func formatUserPrompt(question string, resultsJSON []byte) string {
	return fmt.Sprintf("User asked: %q\n\nQuery results (as JSON):\n%s\n\nPlease provide a natural language response based on these results.", question, resultsJSON)
}

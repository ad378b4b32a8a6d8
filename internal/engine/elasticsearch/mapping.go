package elasticsearch

// DefaultIndexName is the default Elasticsearch index used for part documents.
const DefaultIndexName = "partsearch_parts"

// buildIndexMapping returns the full JSON mapping for the parts index.
// Part numbers are indexed twice: as a keyword for exact lookup and through
// an edge_ngram autocomplete field for prefix matching while the user types.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "autocomplete_analyzer": {
          "type": "custom",
          "tokenizer": "autocomplete_tokenizer",
          "filter": ["lowercase"]
        },
        "autocomplete_search": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase"]
        }
      },
      "tokenizer": {
        "autocomplete_tokenizer": {
          "type": "edge_ngram",
          "min_gram": 2,
          "max_gram": 20,
          "token_chars": ["letter", "digit"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":                      { "type": "keyword" },
      "canonical_mpn":           { "type": "text", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 }, "autocomplete": { "type": "text", "analyzer": "autocomplete_analyzer", "search_analyzer": "autocomplete_search" } } },
      "title":                   { "type": "text", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } } },
      "brand":                   { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "category":                { "type": "keyword" },
      "synonyms":                { "type": "text", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } } },
      "normalized_tokens":       { "type": "keyword" },
      "fitment_equipment_types": { "type": "keyword" },
      "fitment_models":          { "type": "keyword" },
      "distributor_count":       { "type": "integer" },
      "has_distributors":        { "type": "boolean" },
      "popularity":              { "type": "integer" }
    }
  }
}`
}

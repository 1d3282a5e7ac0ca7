// Package tagrank ranks a product catalog against free-text shopping queries.
//
// A classifier labels the query with weighted tags (CAT_*, INT_*, ATTR_*, MARCA_*).
// The engine normalizes the labels and scores every product by the tags it carries.
// Without a classifier, or when it fails, products are ranked by literal text matching.
//
//	eng, _ := tagrank.New(
//	    tagrank.WithCatalogFile("productos.csv"),
//	    tagrank.WithClassifier(tagrank.KeywordClassifier()),
//	)
//	resp, _ := eng.Search(ctx, tagrank.Query{Text: "notebook gamer", TopK: tagrank.K(5)})
//	for _, r := range resp.Results {
//	    fmt.Println(r.Product.Title, r.Score)
//	}
//
// Classifiers are pluggable: use OpenAIClassifier for an OpenAI-compatible chat
// API, KeywordClassifier for an offline demo, or any ClassifierFunc.
package tagrank

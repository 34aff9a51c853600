// Package impact answers "what is related to this file" and "what breaks
// if this file changes" over a built dependency graph.
//
// Relatedness treats the graph as undirected: the traversal follows both
// the files a node depends on and the files that depend on it, so a model
// reaches its controllers just as a controller reaches its models. Change
// risk is graded from the dependent count alone.
//
// Basic usage:
//
//	analyzer := impact.New(table, g, roles)
//	related := analyzer.RelatedFiles("app/Models/User.php", 2)
//	summary := analyzer.Summary("app/Models/User.php")
package impact

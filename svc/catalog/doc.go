// Package catalog defines categories and subcategories and the repositories
// that serve them.
//
// MemoryRepository serves an embedded dataset with simulated latency and
// optional fault injection. PostgresRepository reads the same data from the
// tables created and seeded by Migrations.
package catalog

// Package store holds the SQL composition shared by the relational store
// adapters in its sub-packages (store/postgres, store/sqlite). Each adapter
// supplies its own placeholder style; the clauses and joins are identical.
package store

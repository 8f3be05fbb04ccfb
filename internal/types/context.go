package types

type contextKey string

// DBKey stores the *postgres.DB opened by a command's Before hook.
const DBKey contextKey = "db"

package domain

// KeyPrefix namespaces every key khadamat writes to a shared KV store.
const KeyPrefix = "khadamat:"

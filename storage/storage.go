package storage

// Store is the durable key-value collaborator: get-by-key, set-by-key,
// delete-by-key over string keys. Absence is signalled by the bool return,
// not by an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

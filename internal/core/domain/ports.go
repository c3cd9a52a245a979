package domain

// IBundleCypher defines the methods a cypher must implement to encrypt or
// decrypt a serialized secret bundle with a password.
type IBundleCypher interface {
	Encrypt(bundle, password []byte) ([]byte, error)
	Decrypt(encryptedBundle, password []byte) ([]byte, error)
}

var BundleCypher IBundleCypher

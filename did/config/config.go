package config

import (
	"os"
)

// Default values
const (
	DefaultMethodName  = "sidetree"
	DefaultResolverURL = "https://resolver-testnet.pila.vn/1.0"
)

// Environment variable names
const (
	EnvMethodName  = "DID_METHOD_NAME"
	EnvResolverURL = "DID_RESOLVER_URL"
)

// MethodName returns the DID method name from environment variable or default value
func MethodName() string {
	if method := os.Getenv(EnvMethodName); method != "" {
		return method
	}
	return DefaultMethodName
}

// ResolverURL returns the resolver base URL from environment variable or default value
func ResolverURL() string {
	if resolver := os.Getenv(EnvResolverURL); resolver != "" {
		return resolver
	}
	return DefaultResolverURL
}

package meta

import "sync"

var (
	serviceName    string    //nolint:gochecknoglobals // for minimizing dependency injection across codebase
	serviceVersion string    //nolint:gochecknoglobals // for minimizing dependency injection across codebase
	once           sync.Once //nolint:gochecknoglobals // ensures SetServiceInfo is called once
)

// SetServiceInfo records the service name and version reported in logs and traces. Only the first call has an effect.
func SetServiceInfo(name, version string) {
	once.Do(func() {
		serviceName = name
		serviceVersion = version
	})
}

// GetServiceName returns the name recorded by SetServiceInfo.
func GetServiceName() string {
	return serviceName
}

// GetServiceVersion returns the version recorded by SetServiceInfo.
func GetServiceVersion() string {
	return serviceVersion
}

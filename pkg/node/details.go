package node

import "github.com/cuemby/nodefabric/pkg/nodeconfig"

// Details is the immutable metadata published at Node creation: a Name
// and the fabric Config the Node was built with. Persisted
// as the content of the single "node" static-storage artifact under the
// Node's details path, and read back, best-effort, by the enumerator.
type Details struct {
	Name   Name            `yaml:"name"`
	Config nodeconfig.Config `yaml:"config"`
}

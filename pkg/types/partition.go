package types

// Partition represents one Slurm partition backed by exactly one elastic
// node-group of the cluster-management control plane.
type Partition struct {
	// Scheduler-facing partition name, unique key of the partition map
	Name string `json:"name" yaml:"name"`

	// Backing node-group identifier
	Nodearray string `json:"nodearray" yaml:"nodearray"`

	// Machine type of the node-group. A node-group declaring several
	// machine types is reduced to its first entry.
	MachineType string `json:"machineType" yaml:"machineType"`

	// Whether this is the scheduler's default partition
	IsDefault bool `json:"isDefault" yaml:"isDefault"`

	// Upper bound on contiguous capacity a single placement group may hold
	MaxScalesetSize int `json:"maxScalesetSize" yaml:"maxScalesetSize"`

	// Per-node shape, emitted verbatim into generated config
	VCPUCount int     `json:"vcpuCount" yaml:"vcpuCount"`
	Memory    float64 `json:"memory" yaml:"memory"` // GiB

	// Total addressable capacity of the partition
	MaxVMCount int `json:"maxVMCount" yaml:"maxVMCount"`

	// Compressed hostlist of this node-group's currently existing nodes,
	// empty when none exist
	NodeList string `json:"nodeList,omitempty" yaml:"nodeList,omitempty"`
}

// PartitionMap is an insertion-ordered mapping of partition name to
// Partition. The first node-group to claim a name wins; later claimants are
// dropped by the builder.
type PartitionMap struct {
	names   []string
	entries map[string]*Partition
}

// NewPartitionMap creates an empty PartitionMap.
func NewPartitionMap() *PartitionMap {
	return &PartitionMap{entries: make(map[string]*Partition)}
}

// Add inserts a partition under its name. It returns false without modifying
// the map if the name is already claimed.
func (m *PartitionMap) Add(p *Partition) bool {
	if _, claimed := m.entries[p.Name]; claimed {
		return false
	}
	m.names = append(m.names, p.Name)
	m.entries[p.Name] = p
	return true
}

// Get returns the partition with the given name, or nil.
func (m *PartitionMap) Get(name string) *Partition {
	return m.entries[name]
}

// Has reports whether a partition with the given name exists.
func (m *PartitionMap) Has(name string) bool {
	_, ok := m.entries[name]
	return ok
}

// Len returns the number of partitions.
func (m *PartitionMap) Len() int {
	return len(m.names)
}

// Names returns the partition names in insertion order.
func (m *PartitionMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Each calls fn for every partition in insertion order.
func (m *PartitionMap) Each(fn func(*Partition)) {
	for _, name := range m.names {
		fn(m.entries[name])
	}
}

// Partitions returns the partitions in insertion order.
func (m *PartitionMap) Partitions() []*Partition {
	out := make([]*Partition, 0, len(m.names))
	for _, name := range m.names {
		out = append(out, m.entries[name])
	}
	return out
}

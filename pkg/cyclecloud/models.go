package cyclecloud

import "strings"

// Record is a schemaless attribute bag as the control plane returns it.
// Nodearray definitions are open-ended, so they stay map-shaped and are read
// through the accessor helpers.
type Record map[string]interface{}

// Section returns the nested record at the given key path, or an empty
// record when any step is missing or not a record.
func (r Record) Section(keys ...string) Record {
	cur := r
	for _, key := range keys {
		next, ok := cur[key].(map[string]interface{})
		if !ok {
			return Record{}
		}
		cur = next
	}
	return cur
}

// Str returns the string at key, or fallback.
func (r Record) Str(key, fallback string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return fallback
}

// Bool returns the bool at key, or fallback.
func (r Record) Bool(key string, fallback bool) bool {
	if v, ok := r[key].(bool); ok {
		return v
	}
	return fallback
}

// Int returns the integer at key, or fallback. JSON numbers decode as
// float64, so both forms are accepted.
func (r Record) Int(key string, fallback int) int {
	switch v := r[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// StringList returns the value at key as a list of strings. A single
// comma-separated string and a JSON array are both accepted, matching the two
// forms the control plane emits for MachineType.
func (r Record) StringList(key string) []string {
	switch v := r[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return splitCommaList(v)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// ClusterStatus is the control plane's snapshot of a cluster: every elastic
// node-group with its capacity buckets, plus (optionally) the flat list of
// currently existing nodes.
type ClusterStatus struct {
	Nodearrays []NodearrayStatus `json:"nodearrays"`
	Nodes      []NodeRecord      `json:"nodes,omitempty"`
}

// NodearrayStatus is one node-group's status entry.
type NodearrayStatus struct {
	Name      string   `json:"name"`
	Nodearray Record   `json:"nodearray"`
	Buckets   []Bucket `json:"buckets"`
}

// Bucket is a machine-type-specific capacity and shape record within a
// node-group's status.
type Bucket struct {
	Definition     BucketDefinition `json:"definition"`
	VirtualMachine *VirtualMachine  `json:"virtualMachine"`
	MaxCount       *int             `json:"maxCount"`
}

// BucketDefinition identifies the machine type a bucket covers.
type BucketDefinition struct {
	MachineType string `json:"machineType"`
}

// VirtualMachine is the per-node shape of a bucket.
type VirtualMachine struct {
	VCPUCount int     `json:"vcpuCount"`
	Memory    float64 `json:"memory"` // GiB
}

// NodeRecord is one existing node as reported by the control plane.
type NodeRecord struct {
	Name        string `json:"Name"`
	Template    string `json:"Template"`
	State       string `json:"State"`
	TargetState string `json:"TargetState"`
	PrivateIP   string `json:"PrivateIp"`
}

// StartResponse carries the operation identifier a start-nodes call returns;
// subsequent node queries are filtered by it.
type StartResponse struct {
	OperationID string `json:"operationId"`
}

// NodeListResponse is the response to a node query.
type NodeListResponse struct {
	Nodes []NodeRecord `json:"nodes"`
}

// NodeCreationRequest is a batch request to provision capacity.
type NodeCreationRequest struct {
	RequestID string                   `json:"requestId"`
	Sets      []NodeCreationRequestSet `json:"sets"`
}

// NodeCreationRequestSet describes one (node-group, placement-group) slice of
// a creation request.
type NodeCreationRequestSet struct {
	Nodearray        string         `json:"nodearray"`
	PlacementGroupID string         `json:"placementGroupId"`
	Count            int            `json:"count"`
	Definition       NodeDefinition `json:"definition"`
	NodeAttributes   Record         `json:"nodeAttributes"`
}

// NodeDefinition selects the machine type for a creation-request set.
type NodeDefinition struct {
	MachineType string `json:"machineType"`
}

func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

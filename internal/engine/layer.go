package engine

// ResourceEntry is a keyed resource owned by a layer.
type ResourceEntry struct {
	Key      string
	Resource *Resource
}

// UpgradeEntry is a keyed upgrade owned by a layer.
type UpgradeEntry struct {
	Key     string
	Upgrade *Upgrade
}

// Layer groups the persistent state of one progression layer. Resetting a
// layer resets everything registered on it.
type Layer struct {
	ID    string
	Name  string
	Color string

	resources []ResourceEntry
	upgrades  []UpgradeEntry
}

func NewLayer(id, name, color string) *Layer {
	return &Layer{ID: id, Name: name, Color: color}
}

// AddResource registers r under key and returns it.
func (l *Layer) AddResource(key string, r *Resource) *Resource {
	l.resources = append(l.resources, ResourceEntry{Key: key, Resource: r})
	return r
}

// AddUpgrade registers u under key and returns it.
func (l *Layer) AddUpgrade(key string, u *Upgrade) *Upgrade {
	l.upgrades = append(l.upgrades, UpgradeEntry{Key: key, Upgrade: u})
	return u
}

func (l *Layer) Resources() []ResourceEntry { return l.resources }
func (l *Layer) Upgrades() []UpgradeEntry   { return l.upgrades }

func (l *Layer) Reset() {
	for _, e := range l.resources {
		e.Resource.Reset()
	}
	for _, e := range l.upgrades {
		e.Upgrade.Reset()
	}
}

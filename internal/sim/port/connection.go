package port

// Connection is a named binder between a set of source ports and a set of
// destination ports. It never owns the ports or the components behind
// them. Propagate is invoked by a ticking connection wrapper
// once per cycle; latency, if non-zero, is the caller's responsibility to
// apply via a deferred delivery (see TickingConnection in this package).
type Connection struct {
	Name    string
	Sources []*Port
	Dests   []*Port
	Latency uint64
}

// NewConnection returns a Connection with no ports attached.
func NewConnection(name string, latency uint64) *Connection {
	return &Connection{Name: name, Latency: latency}
}

// AddSource attaches a source port.
func (c *Connection) AddSource(p *Port) { c.Sources = append(c.Sources, p) }

// AddDest attaches a destination port.
func (c *Connection) AddDest(p *Port) { c.Dests = append(c.Dests, p) }

// Propagate copies every valid packet currently sitting in a source port
// to every destination port, stamping each with cycle. It never buffers
// more than one outstanding packet per destination slot: the caller is
// responsible for applying Latency before calling Propagate, or
// for using RegisterFileWire when buffering is required.
func (c *Connection) Propagate(cycle uint64) {
	for _, src := range c.Sources {
		if !src.HasData() {
			continue
		}
		pkt := src.Read().Stamp(cycle)
		for _, dst := range c.Dests {
			dst.Write(pkt.Clone())
		}
	}
}

package discovery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cec-protocol/cec-go/pkg/cec"
)

const (
	// ServiceType is the DNS-SD service type bridges register under.
	ServiceType = "_cec-bridge._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the default bridge listen port.
	DefaultPort = 9526

	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 10 * time.Second

	// MaxInstanceNameLen caps DNS-SD instance names.
	MaxInstanceNameLen = 63

	// TXTVersion is the protocol version written to the "ver" record.
	TXTVersion = "1"
)

var (
	// ErrNotFound indicates no matching bridge was discovered.
	ErrNotFound = errors.New("bridge not found")

	// ErrMissingTXT indicates a required TXT record is absent.
	ErrMissingTXT = errors.New("missing TXT record")
)

// BridgeService describes a discovered CEC bridge.
type BridgeService struct {
	// InstanceName is the DNS-SD instance name.
	InstanceName string

	// Host is the bridge's mDNS hostname.
	Host string

	// Port is the bridge's TCP listen port.
	Port uint16

	// Addresses holds the bridge's IP addresses as strings, merged
	// across interfaces.
	Addresses []string

	// Version is the advertised protocol version.
	Version string

	// Name is the human-readable bridge name.
	Name string

	// PhysicalAddr is the physical address of the HDMI port the
	// bridge is attached to, cec.PhysicalAddrInvalid when not
	// advertised.
	PhysicalAddr cec.PhysicalAddress

	// Firmware is the advertised firmware revision, may be empty.
	Firmware string
}

// Addr returns the preferred host:port dial target. The first
// discovered address wins; the mDNS hostname is the fallback.
func (s *BridgeService) Addr() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	return fmt.Sprintf("%s:%d", strings.TrimSuffix(host, "."), s.Port)
}

// BridgeInfo is the advertisement payload for a bridge.
type BridgeInfo struct {
	// Name is the human-readable bridge name. Required.
	Name string

	// Version is the protocol version, TXTVersion when empty.
	Version string

	// Port is the TCP listen port, DefaultPort when zero.
	Port uint16

	// PhysicalAddr is the HDMI physical address of the bridge port.
	PhysicalAddr cec.PhysicalAddress

	// Firmware is the firmware revision, omitted when empty.
	Firmware string
}

// EncodeTXT builds the TXT record strings for an advertisement.
func EncodeTXT(info *BridgeInfo) []string {
	ver := info.Version
	if ver == "" {
		ver = TXTVersion
	}
	txt := []string{
		"ver=" + ver,
		"name=" + info.Name,
	}
	if info.PhysicalAddr != cec.PhysicalAddrInvalid {
		txt = append(txt, fmt.Sprintf("pa=%s", info.PhysicalAddr))
	}
	if info.Firmware != "" {
		txt = append(txt, "fw="+info.Firmware)
	}
	return txt
}

// DecodeTXT parses TXT record strings into a BridgeInfo.
func DecodeTXT(txt []string) (*BridgeInfo, error) {
	records := make(map[string]string, len(txt))
	for _, s := range txt {
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			continue
		}
		records[key] = value
	}

	name, ok := records["name"]
	if !ok {
		return nil, fmt.Errorf("%w: name", ErrMissingTXT)
	}

	info := &BridgeInfo{
		Name:         name,
		Version:      records["ver"],
		PhysicalAddr: cec.PhysicalAddrInvalid,
		Firmware:     records["fw"],
	}
	if pa, ok := records["pa"]; ok {
		addr, err := parsePhysicalAddr(pa)
		if err != nil {
			return nil, err
		}
		info.PhysicalAddr = addr
	}
	return info, nil
}

// ServiceEntry is raw mDNS service entry data, decoupled from the
// resolver's types. This is a helper for browser implementations.
type ServiceEntry struct {
	Instance string
	Host     string
	Port     uint16
	Text     []string
	Addrs    []string
}

// ToBridgeService converts a ServiceEntry to a BridgeService. Entries
// with unparseable TXT records are rejected.
func (e *ServiceEntry) ToBridgeService() (*BridgeService, error) {
	info, err := DecodeTXT(e.Text)
	if err != nil {
		return nil, err
	}

	return &BridgeService{
		InstanceName: e.Instance,
		Host:         e.Host,
		Port:         e.Port,
		Addresses:    e.Addrs,
		Version:      info.Version,
		Name:         info.Name,
		PhysicalAddr: info.PhysicalAddr,
		Firmware:     info.Firmware,
	}, nil
}

// parsePhysicalAddr parses the dotted "a.b.c.d" form used in TXT
// records back into a physical address.
func parsePhysicalAddr(s string) (cec.PhysicalAddress, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return cec.PhysicalAddrInvalid, fmt.Errorf("invalid physical address: %q", s)
	}
	var addr cec.PhysicalAddress
	for _, p := range parts {
		nibble, err := strconv.ParseUint(p, 10, 8)
		if err != nil || nibble > 0xF {
			return cec.PhysicalAddrInvalid, fmt.Errorf("invalid physical address: %q", s)
		}
		addr = addr<<4 | cec.PhysicalAddress(nibble)
	}
	return addr, nil
}

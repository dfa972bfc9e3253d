// Package netlink issues the one-shot generic-netlink query resmon uses
// to learn a device's resource capacity (spec.md §4.4/C5: "capacity
// comes from C5, or a fixed 10000 in mock mode"). There is no netlink
// client library anywhere in the example pack, and the query here is a
// single request/reply with one family resolution step, so it is built
// directly on golang.org/x/sys/unix raw socket calls the way the pack's
// ioctl-based ethtool query and its eBPF ring-buffer reader both reach
// for unix syscalls instead of a framework for a narrowly-scoped piece
// of kernel plumbing.
package netlink

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

const (
	genlCmdGetFamily  = 3
	genlAttrFamilyID  = 1
	genlAttrFamilyName = 2

	nlaAlignTo = 4
)

// Resource is one node in the device's resource tree, enough to locate
// the "kvd" entry and read its capacity.
type Resource struct {
	Name     string
	Size     uint64
	Children []Resource
}

// ResourceCapacity opens a fresh NETLINK_GENERIC socket, resolves the
// devlink family, issues a resource-dump request for the given device,
// and returns the size of the first resource found named resourceName
// anywhere in the response tree (resmon looks for "kvd").
func ResourceCapacity(devlinkFamily, busName, devName, resourceName string) (uint64, error) {
	sock, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW, unix.NETLINK_GENERIC)
	if err != nil {
		return 0, fmt.Errorf("netlink: socket: %w", err)
	}
	defer unix.Close(sock)

	if err := unix.Bind(sock, &unix.SockaddrNetlink{Family: unix.AF_NETLINK}); err != nil {
		return 0, fmt.Errorf("netlink: bind: %w", err)
	}

	familyID, err := resolveFamily(sock, devlinkFamily)
	if err != nil {
		return 0, fmt.Errorf("netlink: resolving family %q: %w", devlinkFamily, err)
	}

	resp, err := requestReply(sock, familyID, devlinkCmdResourceDumpRequest(busName, devName))
	if err != nil {
		return 0, fmt.Errorf("netlink: resource dump: %w", err)
	}

	resources, err := parseResourceTree(resp)
	if err != nil {
		return 0, fmt.Errorf("netlink: parsing resource dump: %w", err)
	}

	if r, ok := findResource(resources, resourceName); ok {
		return r.Size, nil
	}
	return 0, fmt.Errorf("netlink: resource %q not found", resourceName)
}

func findResource(resources []Resource, name string) (Resource, bool) {
	for _, r := range resources {
		if r.Name == name {
			return r, true
		}
		if child, ok := findResource(r.Children, name); ok {
			return child, true
		}
	}
	return Resource{}, false
}

// nlaAlign rounds n up to the netlink attribute alignment boundary.
func nlaAlign(n int) int {
	return (n + nlaAlignTo - 1) &^ (nlaAlignTo - 1)
}

// putAttr appends one netlink attribute (type, length, value, padding).
func putAttr(buf []byte, attrType uint16, value []byte) []byte {
	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint16(hdr[0:2], uint16(4+len(value)))
	binary.LittleEndian.PutUint16(hdr[2:4], attrType)
	buf = append(buf, hdr...)
	buf = append(buf, value...)
	pad := nlaAlign(len(value)) - len(value)
	buf = append(buf, make([]byte, pad)...)
	return buf
}

type attr struct {
	Type uint16
	Data []byte
}

// parseAttrs walks a flat (non-nested) netlink attribute stream.
func parseAttrs(buf []byte) ([]attr, error) {
	var out []attr
	for len(buf) > 0 {
		if len(buf) < 4 {
			return nil, fmt.Errorf("truncated attribute header")
		}
		length := int(binary.LittleEndian.Uint16(buf[0:2]))
		attrType := binary.LittleEndian.Uint16(buf[2:4])
		if length < 4 || length > len(buf) {
			return nil, fmt.Errorf("invalid attribute length %d", length)
		}
		out = append(out, attr{Type: attrType &^ 0x8000, Data: buf[4:length]})
		adv := nlaAlign(length)
		if adv > len(buf) {
			adv = len(buf)
		}
		buf = buf[adv:]
	}
	return out, nil
}

// resolveFamily looks up a generic-netlink family's numeric id by name
// via the nlctrl family's GETFAMILY command.
func resolveFamily(sock int, name string) (uint16, error) {
	var body []byte
	body = putAttr(body, genlAttrFamilyName, append([]byte(name), 0))

	resp, err := requestReply(sock, unix.GENL_ID_CTRL, genlMessage(genlCmdGetFamily, body))
	if err != nil {
		return 0, err
	}

	attrs, err := parseAttrs(resp[genlHdrLen:])
	if err != nil {
		return 0, err
	}
	for _, a := range attrs {
		if a.Type == genlAttrFamilyID && len(a.Data) >= 2 {
			return binary.LittleEndian.Uint16(a.Data[0:2]), nil
		}
	}
	return 0, fmt.Errorf("family %q has no id attribute in the reply", name)
}

const genlHdrLen = 4 // cmd, version, reserved(2)

// genlMessage builds a generic-netlink message body: the genl header
// (cmd, version) followed by attribute payload.
func genlMessage(cmd uint8, attrs []byte) []byte {
	hdr := []byte{cmd, 1, 0, 0}
	return append(hdr, attrs...)
}

// devlinkCmdResourceDumpRequest has no payload beyond the bus/dev
// identifying attributes; devlink resolves the target device from
// those two strings.
func devlinkCmdResourceDumpRequest(busName, devName string) []byte {
	const (
		devlinkCmdResourceDump = 0x26
		devlinkAttrBusName     = 1
		devlinkAttrDevName     = 2
	)
	var body []byte
	body = putAttr(body, devlinkAttrBusName, append([]byte(busName), 0))
	body = putAttr(body, devlinkAttrDevName, append([]byte(devName), 0))
	return genlMessage(devlinkCmdResourceDump, body)
}

// parseResourceTree interprets a devlink resource-dump reply's nested
// DEVLINK_ATTR_RESOURCE_LIST / DEVLINK_ATTR_RESOURCE attributes.
func parseResourceTree(msg []byte) ([]Resource, error) {
	const (
		devlinkAttrResourceList = 91
		devlinkAttrResource     = 92
		devlinkAttrResourceName = 93
		devlinkAttrResourceSize = 94
	)

	top, err := parseAttrs(msg[genlHdrLen:])
	if err != nil {
		return nil, err
	}

	var walk func(attrs []attr) []Resource
	walk = func(attrs []attr) []Resource {
		var out []Resource
		for _, a := range attrs {
			switch a.Type {
			case devlinkAttrResourceList:
				children, err := parseAttrs(a.Data)
				if err == nil {
					out = append(out, walk(children)...)
				}
			case devlinkAttrResource:
				fields, err := parseAttrs(a.Data)
				if err != nil {
					continue
				}
				var r Resource
				for _, f := range fields {
					switch f.Type {
					case devlinkAttrResourceName:
						r.Name = goString(f.Data)
					case devlinkAttrResourceSize:
						if len(f.Data) >= 8 {
							r.Size = binary.LittleEndian.Uint64(f.Data[0:8])
						}
					case devlinkAttrResourceList:
						nested, err := parseAttrs(f.Data)
						if err == nil {
							r.Children = walk(nested)
						}
					}
				}
				out = append(out, r)
			}
		}
		return out
	}

	return walk(top), nil
}

func goString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

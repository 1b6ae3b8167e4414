package protocol

import "strings"

const (
	// HeaderSize is the fixed length of every frame header: a 4-byte payload
	// length followed by a 20-byte type tag.
	HeaderSize = SizeFieldLen + TagFieldLen
	// SizeFieldLen is the width of the big-endian payload length.
	SizeFieldLen = 4
	// TagFieldLen is the width of the type tag field.
	TagFieldLen = 20
	// TagPadByte fills the unused tail of the tag field.
	TagPadByte byte = ' '

	// ArgFieldLen is the width of each control message field.
	ArgFieldLen = 20
	// ControlMsgSize is the encoded size of a control message body.
	ControlMsgSize = 3 * ArgFieldLen

	// LabelFieldLen and DataFieldLen size the two label message fields.
	LabelFieldLen = 20
	DataFieldLen  = 80
	// LabelMsgSize is the encoded size of a label message body.
	LabelMsgSize = LabelFieldLen + DataFieldLen

	// DefaultMaxPayload bounds the payload length accepted from a header.
	DefaultMaxPayload = 64 * 1024
)

// Type tags carried in the frame header. Senders only ever emit these.
const (
	TagControl = "ControlMsg"
	TagLabel   = "LabelMsg"

	// LegacyLabelPrefix identifies the label family recognized by older
	// receivers, which matched on the first 8 bytes of the tag.
	LegacyLabelPrefix = "LabelStr"
)

// Control command names understood by the client.
const (
	CmdChangeID      = "/change_id"
	CmdChangePeer    = "/change_peer"
	CmdEndConnection = "/end_connection"
	CmdPeerLost      = "/peer_lost"

	// CmdNewPeer is announced by the coordinating server when another client
	// joins. The client does not act on it.
	CmdNewPeer = "/new_peer"
)

// BroadcastPeer is the peer value meaning "no dedicated peer".
const BroadcastPeer = "broadcast"

// Kind is the message family a frame belongs to.
type Kind int

const (
	KindUnknown Kind = iota
	KindControl
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindControl:
		return "control"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// ClassifyTag maps a decoded header tag to its message family. Trailing
// space or NUL padding is ignored; the control and label tags must match
// exactly, except for the legacy label prefix.
func ClassifyTag(tag string) Kind {
	switch strings.TrimRight(tag, " \x00") {
	case TagControl:
		return KindControl
	case TagLabel:
		return KindLabel
	}
	if strings.HasPrefix(tag, LegacyLabelPrefix) {
		return KindLabel
	}
	return KindUnknown
}

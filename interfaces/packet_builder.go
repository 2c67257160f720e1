package interfaces

import "errors"

// ErrIncompleteDeviceLockState indicates the session is missing material
// the device-lock follow-up needs.
var ErrIncompleteDeviceLockState = errors.New("device lock state incomplete")

// DeviceLockState is the session material the device-lock follow-up packet
// is built from. The slices are copies owned by the builder call.
type DeviceLockState struct {
	// Uin is the account being logged in.
	Uin int64
	// GUID is the device GUID.
	GUID []byte
	// T104 is the signature blob from the server's tag 0x104.
	T104 []byte
	// RandSeed is the server's tag 0x403.
	RandSeed []byte
	// T402 and G are set when the server sent a display token.
	T402 []byte
	G    []byte
}

// Validate checks the fields every device-lock packet requires.
func (s DeviceLockState) Validate() error {
	if len(s.GUID) == 0 || len(s.T104) == 0 || len(s.RandSeed) == 0 {
		return ErrIncompleteDeviceLockState
	}
	return nil
}

// IPacketBuilder builds outbound login packets that a decoder has to
// trigger itself. Only the device-lock branch of the login decoder uses it.
type IPacketBuilder interface {
	// BuildDeviceLockLoginPacket returns the sequence number and encoded
	// packet of the device-lock login request. The caller sends it.
	BuildDeviceLockLoginPacket(state DeviceLockState) (seq uint16, packet []byte, err error)
}

// PacketBuilderFunc adapts a function to IPacketBuilder.
type PacketBuilderFunc func(state DeviceLockState) (uint16, []byte, error)

// BuildDeviceLockLoginPacket calls f.
func (f PacketBuilderFunc) BuildDeviceLockLoginPacket(state DeviceLockState) (uint16, []byte, error) {
	return f(state)
}

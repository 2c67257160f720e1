// Package interfaces defines the collaborators the login decoders call out
// to but do not implement.
//
// # Core Interfaces
//
// [IPacketBuilder] builds the device-lock follow-up packet. The login
// decoder invokes it exactly once when the server answers with outcome code
// 204, then hands the packet back to the caller to send:
//
//	builder := interfaces.PacketBuilderFunc(func(s interfaces.DeviceLockState) (uint16, []byte, error) {
//	    if err := s.Validate(); err != nil {
//	        return 0, nil, err
//	    }
//	    return seq.Next(), encodeDeviceLock(s), nil
//	})
//
// The decoders perform no I/O, so sending the packet and decoding the next
// frame is always the caller's job.
package interfaces

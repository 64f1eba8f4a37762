package protocol

// FrameSize is the fixed UDP payload length the gateway expects.
const FrameSize = 3

// terminator closes every frame whose command is shorter than three bytes.
const terminator = 0x55

// EncodeFrame pads a command to the fixed 3-byte wire frame: a single opcode
// gets a zero operand, and any 2-byte result gets the terminator byte.
// Commands that already fill the frame pass through unchanged.
func EncodeFrame(cmd Command) []byte {
	frame := make([]byte, 0, FrameSize)
	frame = append(frame, cmd...)
	if len(frame) == 1 {
		frame = append(frame, 0x00)
	}
	if len(frame) == 2 {
		frame = append(frame, terminator)
	}
	return frame
}

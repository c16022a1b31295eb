package xact

import (
	"github.com/sarchlab/vtb/sim"
)

// A StimulusMsg carries a stimulus transaction to the device under test.
type StimulusMsg struct {
	sim.MsgMeta

	Transaction Transaction
}

// Meta returns the meta data of the message.
func (m *StimulusMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a cloned StimulusMsg with a different ID.
func (m *StimulusMsg) Clone() sim.Msg {
	cloneMsg := *m
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// StimulusMsgBuilder can build stimulus messages.
type StimulusMsgBuilder struct {
	src, dst sim.RemotePort
	txn      Transaction
}

// WithSrc sets the source of the message.
func (b StimulusMsgBuilder) WithSrc(src sim.RemotePort) StimulusMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the message.
func (b StimulusMsgBuilder) WithDst(dst sim.RemotePort) StimulusMsgBuilder {
	b.dst = dst
	return b
}

// WithTransaction sets the transaction the message carries.
func (b StimulusMsgBuilder) WithTransaction(
	txn Transaction,
) StimulusMsgBuilder {
	b.txn = txn
	return b
}

// Build creates a new StimulusMsg.
func (b StimulusMsgBuilder) Build() *StimulusMsg {
	m := &StimulusMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.Transaction = b.txn

	return m
}

// A ResponseMsg carries one output event of the device under test.
type ResponseMsg struct {
	sim.MsgMeta

	// Payload is the raw output value. The monitor reconstructs a response
	// transaction from it.
	Payload uint64
}

// Meta returns the meta data of the message.
func (m *ResponseMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a cloned ResponseMsg with a different ID.
func (m *ResponseMsg) Clone() sim.Msg {
	cloneMsg := *m
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// ResponseMsgBuilder can build response messages.
type ResponseMsgBuilder struct {
	src, dst sim.RemotePort
	payload  uint64
}

// WithSrc sets the source of the message.
func (b ResponseMsgBuilder) WithSrc(src sim.RemotePort) ResponseMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the message.
func (b ResponseMsgBuilder) WithDst(dst sim.RemotePort) ResponseMsgBuilder {
	b.dst = dst
	return b
}

// WithPayload sets the payload the message carries.
func (b ResponseMsgBuilder) WithPayload(payload uint64) ResponseMsgBuilder {
	b.payload = payload
	return b
}

// Build creates a new ResponseMsg.
func (b ResponseMsgBuilder) Build() *ResponseMsg {
	m := &ResponseMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.Payload = b.payload

	return m
}

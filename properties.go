package mqtt5

// Property identifiers, matching the OASIS MQTT v5.0 property table
// (mirrored structurally on mochi-mqtt/server/packets/properties.go's
// PropXxx constants, renamed to this package's PropertyXxx convention).
type PropertyID byte

const (
	PropertyPayloadFormatIndicator     PropertyID = 0x01
	PropertyMessageExpiryInterval      PropertyID = 0x02
	PropertyContentType                PropertyID = 0x03
	PropertyResponseTopic              PropertyID = 0x08
	PropertyCorrelationData            PropertyID = 0x09
	PropertySubscriptionIdentifier     PropertyID = 0x0B
	PropertySessionExpiryInterval      PropertyID = 0x11
	PropertyAssignedClientIdentifier   PropertyID = 0x12
	PropertyServerKeepAlive            PropertyID = 0x13
	PropertyAuthenticationMethod       PropertyID = 0x15
	PropertyAuthenticationData         PropertyID = 0x16
	PropertyRequestProblemInformation  PropertyID = 0x17
	PropertyWillDelayInterval          PropertyID = 0x18
	PropertyRequestResponseInformation PropertyID = 0x19
	PropertyResponseInformation        PropertyID = 0x1A
	PropertyServerReference            PropertyID = 0x1C
	PropertyReasonString               PropertyID = 0x1F
	PropertyReceiveMaximum             PropertyID = 0x21
	PropertyTopicAliasMaximum          PropertyID = 0x22
	PropertyTopicAlias                 PropertyID = 0x23
	PropertyMaximumQoS                 PropertyID = 0x24
	PropertyRetainAvailable            PropertyID = 0x25
	PropertyUserProperty               PropertyID = 0x26
	PropertyMaximumPacketSize          PropertyID = 0x27
	PropertyWildcardSubAvailable       PropertyID = 0x28
	PropertySubIDAvailable             PropertyID = 0x29
	PropertySharedSubAvailable         PropertyID = 0x2A
)

// wireType enumerates the fixed encodings a property identifier can carry.
type wireType byte

const (
	wireByte wireType = iota
	wireUint16
	wireUint32
	wireVarint
	wireString
	wireBinary
	wireStringPair
)

// propertyWireType is the single table driving both the encoder and the
// decoder, collapsing what would otherwise be a separate per-property
// dispatch block repeated in every packet type's parser down to one table
// plus one generic loop (Properties.encode / decodeProperties below).
var propertyWireType = map[PropertyID]wireType{
	PropertyPayloadFormatIndicator:     wireByte,
	PropertyMessageExpiryInterval:      wireUint32,
	PropertyContentType:                wireString,
	PropertyResponseTopic:              wireString,
	PropertyCorrelationData:            wireBinary,
	PropertySubscriptionIdentifier:     wireVarint,
	PropertySessionExpiryInterval:      wireUint32,
	PropertyAssignedClientIdentifier:   wireString,
	PropertyServerKeepAlive:            wireUint16,
	PropertyAuthenticationMethod:       wireString,
	PropertyAuthenticationData:         wireBinary,
	PropertyRequestProblemInformation:  wireByte,
	PropertyWillDelayInterval:          wireUint32,
	PropertyRequestResponseInformation: wireByte,
	PropertyResponseInformation:        wireString,
	PropertyServerReference:            wireString,
	PropertyReasonString:               wireString,
	PropertyReceiveMaximum:             wireUint16,
	PropertyTopicAliasMaximum:          wireUint16,
	PropertyTopicAlias:                 wireUint16,
	PropertyMaximumQoS:                 wireByte,
	PropertyRetainAvailable:            wireByte,
	PropertyUserProperty:               wireStringPair,
	PropertyMaximumPacketSize:          wireUint32,
	PropertyWildcardSubAvailable:       wireByte,
	PropertySubIDAvailable:             wireByte,
	PropertySharedSubAvailable:         wireByte,
}

// UserProperty is a single free-form key/value pair (PropertyUserProperty
// may repeat any number of times on one packet).
type UserProperty struct {
	Key   string
	Value string
}

// Properties holds every MQTT 5 property a packet might carry. Only the
// fields relevant to a given packet type are populated by that type's
// builder/parser; the rest stay at their zero value, which Properties
// treats as "absent" via each field's Optional.Set flag.
//
// This mirrors mochi-mqtt/server/packets.Properties: one flat struct shared
// by every packet type, rather than one struct per packet type.
type Properties struct {
	PayloadFormatIndicator     Optional[byte]
	MessageExpiryInterval      Optional[uint32]
	ContentType                Optional[string]
	ResponseTopic              Optional[string]
	CorrelationData            Optional[[]byte]
	SubscriptionIdentifier     Optional[uint32]
	SessionExpiryInterval      Optional[uint32]
	AssignedClientIdentifier   Optional[string]
	ServerKeepAlive            Optional[uint16]
	AuthenticationMethod       Optional[string]
	AuthenticationData         Optional[[]byte]
	RequestProblemInformation  Optional[byte]
	WillDelayInterval          Optional[uint32]
	RequestResponseInformation Optional[byte]
	ResponseInformation        Optional[string]
	ServerReference            Optional[string]
	ReasonString               Optional[string]
	ReceiveMaximum             Optional[uint16]
	TopicAliasMaximum          Optional[uint16]
	TopicAlias                 Optional[uint16]
	MaximumQoS                 Optional[byte]
	RetainAvailable            Optional[byte]
	MaximumPacketSize          Optional[uint32]
	WildcardSubAvailable       Optional[byte]
	SubIDAvailable             Optional[byte]
	SharedSubAvailable         Optional[byte]
	User                       []UserProperty
}

// Optional distinguishes a zero-valued property from an absent one, since
// MQTT 5 property lists omit absent properties entirely rather than sending
// a default value for them.
type Optional[T any] struct {
	Value T
	Set   bool
}

func some[T any](v T) Optional[T] { return Optional[T]{Value: v, Set: true} }

// clone returns a deep copy of p, detaching its slices (Correlation Data,
// Authentication Data, User) from whatever backing arrays they share.
// Session does not call it: decodeProperties already copies binary values
// out of the receive buffer.
func (p Properties) clone() Properties {
	out := p
	if p.CorrelationData.Set {
		out.CorrelationData.Value = append([]byte(nil), p.CorrelationData.Value...)
	}
	if p.AuthenticationData.Set {
		out.AuthenticationData.Value = append([]byte(nil), p.AuthenticationData.Value...)
	}
	if len(p.User) > 0 {
		out.User = append([]UserProperty(nil), p.User...)
	}
	return out
}

// size returns the encoded byte length of the property list's payload, not
// including the varint length prefix that precedes it on the wire.
func (p Properties) size() int {
	w := &writer{}
	p.encode(w)
	return w.n
}

// encode writes every set property through w, field-by-field for the fixed
// fields and a loop for the repeating User properties. Each property is
// self-framing (an identifier byte plus the payload shape propertyWireType
// says the identifier carries), so this single function serves as the
// encode half of the property codec for every packet type.
func (p Properties) encode(w *writer) {
	putByteProp := func(id PropertyID, o Optional[byte]) {
		if o.Set {
			w.putByte(byte(id))
			w.putByte(o.Value)
		}
	}
	putU16Prop := func(id PropertyID, o Optional[uint16]) {
		if o.Set {
			w.putByte(byte(id))
			w.putUint16(o.Value)
		}
	}
	putU32Prop := func(id PropertyID, o Optional[uint32]) {
		if o.Set {
			w.putByte(byte(id))
			w.putUint32(o.Value)
		}
	}
	putVarintProp := func(id PropertyID, o Optional[uint32]) {
		if o.Set {
			w.putByte(byte(id))
			w.putVarint(o.Value)
		}
	}
	putStringProp := func(id PropertyID, o Optional[string]) {
		if o.Set {
			w.putByte(byte(id))
			w.putString(o.Value)
		}
	}
	putBinaryProp := func(id PropertyID, o Optional[[]byte]) {
		if o.Set {
			w.putByte(byte(id))
			w.putBinary(o.Value)
		}
	}

	putByteProp(PropertyPayloadFormatIndicator, p.PayloadFormatIndicator)
	putU32Prop(PropertyMessageExpiryInterval, p.MessageExpiryInterval)
	putStringProp(PropertyContentType, p.ContentType)
	putStringProp(PropertyResponseTopic, p.ResponseTopic)
	putBinaryProp(PropertyCorrelationData, p.CorrelationData)
	putVarintProp(PropertySubscriptionIdentifier, p.SubscriptionIdentifier)
	putU32Prop(PropertySessionExpiryInterval, p.SessionExpiryInterval)
	putStringProp(PropertyAssignedClientIdentifier, p.AssignedClientIdentifier)
	putU16Prop(PropertyServerKeepAlive, p.ServerKeepAlive)
	putStringProp(PropertyAuthenticationMethod, p.AuthenticationMethod)
	putBinaryProp(PropertyAuthenticationData, p.AuthenticationData)
	putByteProp(PropertyRequestProblemInformation, p.RequestProblemInformation)
	putU32Prop(PropertyWillDelayInterval, p.WillDelayInterval)
	putByteProp(PropertyRequestResponseInformation, p.RequestResponseInformation)
	putStringProp(PropertyResponseInformation, p.ResponseInformation)
	putStringProp(PropertyServerReference, p.ServerReference)
	putStringProp(PropertyReasonString, p.ReasonString)
	putU16Prop(PropertyReceiveMaximum, p.ReceiveMaximum)
	putU16Prop(PropertyTopicAliasMaximum, p.TopicAliasMaximum)
	putU16Prop(PropertyTopicAlias, p.TopicAlias)
	putByteProp(PropertyMaximumQoS, p.MaximumQoS)
	putByteProp(PropertyRetainAvailable, p.RetainAvailable)
	putU32Prop(PropertyMaximumPacketSize, p.MaximumPacketSize)
	putByteProp(PropertyWildcardSubAvailable, p.WildcardSubAvailable)
	putByteProp(PropertySubIDAvailable, p.SubIDAvailable)
	putByteProp(PropertySharedSubAvailable, p.SharedSubAvailable)
	for _, up := range p.User {
		w.putByte(byte(PropertyUserProperty))
		w.putString(up.Key)
		w.putString(up.Value)
	}
}

// decodeProperties reads a property-list length prefix then loops over
// (identifier, value) pairs until the list is exhausted, dispatching each
// identifier through propertyWireType. Unknown identifiers are rejected
// with ErrUnknownIdentifier rather than silently skipped: a receiver that
// doesn't recognise a property identifier treats the packet as malformed.
func decodeProperties(r *reader) (Properties, error) {
	var p Properties
	length, err := r.getVarint()
	if err != nil {
		return p, err
	}
	if r.remaining() < int(length) {
		return p, ErrInvalidPacketSize
	}
	end := r.pos + int(length)
	for r.pos < end {
		idByte, err := r.getByte()
		if err != nil {
			return p, err
		}
		id := PropertyID(idByte)
		wt, ok := propertyWireType[id]
		if !ok {
			return p, ErrUnknownIdentifier
		}
		switch id {
		case PropertyUserProperty:
			k, err := r.getString()
			if err != nil {
				return p, err
			}
			v, err := r.getString()
			if err != nil {
				return p, err
			}
			p.User = append(p.User, UserProperty{Key: k, Value: v})
			continue
		}
		switch wt {
		case wireByte:
			b, err := r.getByte()
			if err != nil {
				return p, err
			}
			if err := setByteProperty(&p, id, b); err != nil {
				return p, err
			}
		case wireUint16:
			v, err := r.getUint16()
			if err != nil {
				return p, err
			}
			if err := setUint16Property(&p, id, v); err != nil {
				return p, err
			}
		case wireUint32:
			v, err := r.getUint32()
			if err != nil {
				return p, err
			}
			if err := setUint32Property(&p, id, v); err != nil {
				return p, err
			}
		case wireVarint:
			v, err := r.getVarint()
			if err != nil {
				return p, err
			}
			if err := setVarintProperty(&p, id, v); err != nil {
				return p, err
			}
		case wireString:
			s, err := r.getString()
			if err != nil {
				return p, err
			}
			if err := setStringProperty(&p, id, s); err != nil {
				return p, err
			}
		case wireBinary:
			b, err := r.getBinary()
			if err != nil {
				return p, err
			}
			if err := setBinaryProperty(&p, id, b); err != nil {
				return p, err
			}
		}
	}
	if r.pos != end {
		return p, ErrMalformedPacket
	}
	return p, nil
}

func setByteProperty(p *Properties, id PropertyID, v byte) error {
	switch id {
	case PropertyPayloadFormatIndicator:
		p.PayloadFormatIndicator = some(v)
	case PropertyRequestProblemInformation:
		p.RequestProblemInformation = some(v)
	case PropertyRequestResponseInformation:
		p.RequestResponseInformation = some(v)
	case PropertyMaximumQoS:
		p.MaximumQoS = some(v)
	case PropertyRetainAvailable:
		p.RetainAvailable = some(v)
	case PropertyWildcardSubAvailable:
		p.WildcardSubAvailable = some(v)
	case PropertySubIDAvailable:
		p.SubIDAvailable = some(v)
	case PropertySharedSubAvailable:
		p.SharedSubAvailable = some(v)
	default:
		return ErrMalformedPacket
	}
	return nil
}

func setUint16Property(p *Properties, id PropertyID, v uint16) error {
	switch id {
	case PropertyServerKeepAlive:
		p.ServerKeepAlive = some(v)
	case PropertyReceiveMaximum:
		p.ReceiveMaximum = some(v)
	case PropertyTopicAliasMaximum:
		p.TopicAliasMaximum = some(v)
	case PropertyTopicAlias:
		p.TopicAlias = some(v)
	default:
		return ErrMalformedPacket
	}
	return nil
}

func setUint32Property(p *Properties, id PropertyID, v uint32) error {
	switch id {
	case PropertyMessageExpiryInterval:
		p.MessageExpiryInterval = some(v)
	case PropertySessionExpiryInterval:
		p.SessionExpiryInterval = some(v)
	case PropertyWillDelayInterval:
		p.WillDelayInterval = some(v)
	case PropertyMaximumPacketSize:
		p.MaximumPacketSize = some(v)
	default:
		return ErrMalformedPacket
	}
	return nil
}

func setVarintProperty(p *Properties, id PropertyID, v uint32) error {
	switch id {
	case PropertySubscriptionIdentifier:
		p.SubscriptionIdentifier = some(v)
	default:
		return ErrMalformedPacket
	}
	return nil
}

func setStringProperty(p *Properties, id PropertyID, v string) error {
	switch id {
	case PropertyContentType:
		p.ContentType = some(v)
	case PropertyResponseTopic:
		p.ResponseTopic = some(v)
	case PropertyAssignedClientIdentifier:
		p.AssignedClientIdentifier = some(v)
	case PropertyAuthenticationMethod:
		p.AuthenticationMethod = some(v)
	case PropertyResponseInformation:
		p.ResponseInformation = some(v)
	case PropertyServerReference:
		p.ServerReference = some(v)
	case PropertyReasonString:
		p.ReasonString = some(v)
	default:
		return ErrMalformedPacket
	}
	return nil
}

func setBinaryProperty(p *Properties, id PropertyID, v []byte) error {
	switch id {
	case PropertyCorrelationData:
		p.CorrelationData = some(append([]byte(nil), v...))
	case PropertyAuthenticationData:
		p.AuthenticationData = some(append([]byte(nil), v...))
	default:
		return ErrMalformedPacket
	}
	return nil
}

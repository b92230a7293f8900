package driver

const (
	TagInteger byte = 'i'
	TagDouble  byte = 'd'
	TagText    byte = 's'
	TagBlob    byte = 'b'
)

// Value is a parameter in its wire representation.
// The set of implementations is closed: Integer, Double, Text and Blob.
type Value interface {
	Tag() byte
	// Native returns the value in the form accepted by Go SQL drivers.
	Native() interface{}
	isValue()
}

type Integer int64

type Double float64

type Text string

// Blob is binary data. A nil Blob binds SQL NULL.
type Blob []byte

func (Integer) Tag() byte { return TagInteger }
func (Double) Tag() byte  { return TagDouble }
func (Text) Tag() byte    { return TagText }
func (Blob) Tag() byte    { return TagBlob }

func (v Integer) Native() interface{} { return int64(v) }
func (v Double) Native() interface{}  { return float64(v) }
func (v Text) Native() interface{}    { return string(v) }

func (v Blob) Native() interface{} {
	if v == nil {
		return nil
	}
	return []byte(v)
}

func (Integer) isValue() {}
func (Double) isValue()  {}
func (Text) isValue()    {}
func (Blob) isValue()    {}

// NativeValues converts values into driver arguments.
func NativeValues(values []Value) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v.Native()
	}
	return args
}

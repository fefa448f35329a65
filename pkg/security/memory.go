package security

// ZeroBytes overwrites data in place so secrets such as prompted passwords do
// not linger after use.
func ZeroBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

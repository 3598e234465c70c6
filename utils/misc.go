package utils

/*
DeepCopyMap
merges src into dst recursively: nested maps are merged key by key, any other value
in src replaces the one in dst.
*/
func DeepCopyMap(dst, src map[string]interface{}) {
	for k, v := range src {
		if sub, ok := v.(map[string]interface{}); ok {
			if old, ok := dst[k].(map[string]interface{}); ok {
				DeepCopyMap(old, sub)
				continue
			}
		}
		dst[k] = v
	}
}

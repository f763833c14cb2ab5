// Package result define o tipo Result usado como retorno de toda operação que pode falhar
// entre o cliente remoto, os handlers e a camada de transporte.
//
// Um Result tem exatamente duas variantes:
//
//   - Ok(data): ok=true, carrega o payload
//   - Err(code, message?): ok=false, carrega {code, message}; message assume o code quando omitida
//
// O consumidor deve checar OK() antes de ler Data() ou Error().
// A serialização JSON de um Result é o envelope de wire usado por todos os endpoints:
//
//	{"ok": true,  "data": ...}
//	{"ok": false, "error": {"code": "...", "message": "..."}}
package result

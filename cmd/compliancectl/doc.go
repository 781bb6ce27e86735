// Command compliancectl runs and maintains the EU AI Act compliance
// service.
//
// # Quick Start
//
//	# Generate the keys used to seal provider credentials and sign sessions
//	export AIACT_DATA_KEY="$(compliancectl data-key generate)"
//	export AIACT_JWT_SECRET="$(compliancectl data-key generate)"
//
//	# Create the schema and some demo content
//	compliancectl db migrate
//	compliancectl seed users
//	compliancectl seed demo
//
//	# Start the server
//	compliancectl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - AIACT_DATA_KEY: Base64-encoded 256-bit key sealing stored API keys
//   - AIACT_JWT_SECRET: secret signing session tokens
//   - DEEPSEEK_API_KEYS, OPENAI_API_KEYS, GEMINI_API_KEYS, GOOGLE_SEARCH_API_KEYS:
//     comma separated provider keys
//   - GOOGLE_SEARCH_ENGINE_ID: programmable search engine id
//   - AIACT_CONFIG_PATH: directory of aiact.yml
//   - AIACT_LOG_LEVEL: debug, info, warn or error
//   - PORT, BIND_ADDRESS: listen address of the server (default 0.0.0.0:8000)
//
// A .env file in the working directory is loaded first; variables that
// are already set win.
package main

package store

// SchemaSQL defines the conversation log table.
//
// search_text is a computed lowercase concatenation of message contents; the
// keyword retrieval tier matches against it instead of walking the message
// array per query.
const SchemaSQL = `
    DEFINE TABLE IF NOT EXISTS log SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS messages ON log TYPE array<object>;
    REMOVE FIELD IF EXISTS messages.* ON log;
    DEFINE FIELD messages.* ON log TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS duration ON log TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS category ON log TYPE string DEFAULT 'general';
    DEFINE FIELD IF NOT EXISTS feedback ON log TYPE option<string>
        ASSERT $value == NONE OR $value INSIDE ['like', 'dislike', 'improve'];
    DEFINE FIELD IF NOT EXISTS is_training_example ON log TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS created_at ON log TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS search_text ON log
        VALUE string::lowercase(array::join(messages.content, ' '));

    DEFINE INDEX IF NOT EXISTS log_created ON log FIELDS created_at;
    DEFINE INDEX IF NOT EXISTS log_category ON log FIELDS category;
`

package main

const ENV_DATABASE_NAME = "database_name"
const ENV_TELEGRAM_API_KEY = "telegram_api_key"
const ENV_TELEGRAM_ADMIN_CHAT_ID = "tg_admin_chat_id"
const ENV_PROXY_DSN = "proxy_dsn"

// Directory layout of a backup snapshot
const TWITTER_META_DIR = "twitter-meta"
const IMG_DIR = "img"
const AVATAR_DIR = "avatar"
const DOWNLOADED_IMAGES_FILE = "downloaded_images.txt"
const DATABASE_FILE = "twitter_data.db"

// Media file type constants
const FILE_TYPE_IMAGE = "image"
const FILE_TYPE_VIDEO = "video"
const FILE_TYPE_OTHER = "other"

// Profile asset kind constants
const ASSET_KIND_AVATAR = "avatar"
const ASSET_KIND_BANNER = "banner"
